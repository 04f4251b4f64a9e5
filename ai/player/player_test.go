package player

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
)

// scriptSource replays canned lines and records the prompts it was shown.
type scriptSource struct {
	lines   []string
	prompts []string
}

func (s *scriptSource) NextMove(ctx context.Context, st *game.State, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func setup(t *testing.T, x, o string, toMove board.Symbol) *game.State {
	t.Helper()
	pts := func(list string) []board.Intersection {
		var ret []board.Intersection
		for _, f := range strings.Fields(list) {
			p, err := board.Parse(f)
			if err != nil {
				t.Fatal(err)
			}
			ret = append(ret, p)
		}
		return ret
	}
	st, err := game.ClassicRules.FromPosition(game.Position{X: pts(x), O: pts(o), ToMove: toMove})
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func mustMove(t *testing.T, s string) move.Move {
	m, err := move.FromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestHumanPlacement(t *testing.T) {
	is := is.New(t)
	st, _ := game.InitialState(7, 7)
	src := &scriptSource{lines: []string{"__import__('os')", "d4", "pass", "b6"}}
	h := NewHumanPlayer(src, 0)
	m, err := h.ChooseMove(context.Background(), st)
	is.NoErr(err)
	is.Equal(m, mustMove(t, "b6"))
	is.Equal(len(src.prompts), 4)
	is.True(strings.Contains(src.prompts[1], "unrecognized move"))
	is.True(strings.Contains(src.prompts[3], "cannot pass"))
}

func TestHumanGivesUp(t *testing.T) {
	is := is.New(t)
	st, _ := game.InitialState(7, 7)
	st = st.Apply(mustMove(t, "a7"))
	src := &scriptSource{lines: []string{"a7", "a7", "a7", "d7"}}
	h := NewHumanPlayer(src, 3)
	m, err := h.ChooseMove(context.Background(), st)
	is.True(errors.Is(err, ErrTooManyAttempts))
	is.Equal(m, move.NoMove)
	is.Equal(len(src.lines), 1)
}

func TestHumanSourceError(t *testing.T) {
	is := is.New(t)
	st, _ := game.InitialState(7, 7)
	_, err := NewHumanPlayer(&scriptSource{}, 0).ChooseMove(context.Background(), st)
	is.True(errors.Is(err, io.EOF))
}

func TestHumanNoMovesPasses(t *testing.T) {
	is := is.New(t)
	st := setup(t, "a7 g7", "d7 b6 a4 f6 g4", board.X)
	src := &scriptSource{lines: []string{"a7-d7"}}
	m, err := NewHumanPlayer(src, 0).ChooseMove(context.Background(), st)
	is.NoErr(err)
	is.Equal(m, move.NoMove)
	is.Equal(len(src.prompts), 0) // never asked
}

func TestHumanPickThenDrop(t *testing.T) {
	is := is.New(t)
	st := setup(t, "b6 a4 a1", "e4 f2 g1", board.X)
	src := &scriptSource{lines: []string{"b6", "g7", "a7"}}
	m, err := NewHumanPlayer(src, 0).ChooseMove(context.Background(), st)
	is.NoErr(err)
	is.Equal(m, mustMove(t, "b6-a7"))
	is.True(strings.Contains(src.prompts[1], "picked up b6"))
	is.True(strings.Contains(src.prompts[2], "illegal move: b6-g7"))

	src = &scriptSource{lines: []string{"a4-a7"}}
	m, err = NewHumanPlayer(src, 0).ChooseMove(context.Background(), st)
	is.NoErr(err)
	is.Equal(m, mustMove(t, "a4-a7"))
}

func TestRandom(t *testing.T) {
	is := is.New(t)
	st, _ := game.InitialState(7, 7)
	r := &RandomPlayer{}
	for range 50 {
		m, err := r.ChooseMove(context.Background(), st)
		is.NoErr(err)
		is.True(st.IsLegal(m))
	}
	blocked := setup(t, "a7 g7", "d7 b6 a4 f6 g4", board.X)
	m, err := r.ChooseMove(context.Background(), blocked)
	is.NoErr(err)
	is.Equal(m, move.NoMove)
}

func TestRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchHorizon, 300*time.Millisecond)
	cfg.Set(config.ConfigCutoffDepth, 1)
	src := &scriptSource{lines: []string{"b6-a7"}}
	st := setup(t, "b6 a4 a1", "e4 f2 g1", board.X)
	want := mustMove(t, "b6-a7")

	for _, k := range Kinds {
		p, err := New(string(k), Options{Config: cfg, Source: src})
		assert.NoError(t, err)
		assert.Equal(t, string(k), p.Name())
		if k == KindRandom {
			continue
		}
		m, err := p.ChooseMove(context.Background(), st)
		assert.NoError(t, err)
		assert.Equal(t, want, m, "strategy %s", k)
	}

	_, err := New("grandmaster", Options{})
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = New("human", Options{})
	assert.ErrorIs(t, err, ErrNoMoveSource)

	p, err := New(" AlphaBeta-Cutoff ", Options{Config: cfg})
	assert.NoError(t, err)
	assert.Equal(t, 1, p.(*SearchPlayer).Solver().CutoffDepth())
}
