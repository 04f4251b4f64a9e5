package search

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
	"github.com/domino14/morris/stats"
)

var allAlgorithms = []Algorithm{AlgoMinimax, AlgoAlphaBeta, AlgoAlphaBetaCutoff, AlgoExpectimax}

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

func TestExpiredDeadline(t *testing.T) {
	is := is.New(t)
	st, err := game.InitialState(7, 7)
	is.NoErr(err)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	s := NewSolver(config.DefaultConfig())
	for _, algo := range allAlgorithms {
		tstart := time.Now()
		res := s.Search(ctx, algo, st)
		is.True(time.Since(tstart) < time.Second)
		is.True(st.IsLegal(res.Move))
		is.True(!res.Complete)
		is.Equal(len(res.Values), 0)
	}
	is.True(st.IsLegal(s.AlphaBetaCutoff(ctx, st)))
}

func TestNoLegalMoves(t *testing.T) {
	is := is.New(t)
	// Both X pieces are boxed in.
	st := setup(t, "a7 g7", "d7 b6 a4 f6 g4", board.X)
	is.Equal(st.NumActions(), 0)
	s := NewSolver(nil)
	ctx := context.Background()
	is.Equal(s.Minimax(ctx, st), move.NoMove)
	is.Equal(s.AlphaBeta(ctx, st), move.NoMove)
	is.Equal(s.AlphaBetaCutoff(ctx, st), move.NoMove)
	is.Equal(s.Expectimax(ctx, st), move.NoMove)
}

func TestFindsWinningMill(t *testing.T) {
	is := is.New(t)
	// b6-a7 closes the left column and leaves O with two pieces.
	st := setup(t, "b6 a4 a1", "e4 f2 g1", board.X)
	want, err := move.FromString("b6-a7")
	is.NoErr(err)

	s := NewSolver(nil)
	s.SetHorizon(500 * time.Millisecond)
	s.SetCutoffDepth(2)
	for _, algo := range allAlgorithms {
		res := s.Search(context.Background(), algo, st)
		is.Equal(res.Move, want)
		is.Equal(res.Value, float64(game.WinScore))
		is.True(res.Nodes > 0)
	}
}

func TestMaximizerIsSideToMove(t *testing.T) {
	is := is.New(t)
	// Same position with colours swapped and O to move.
	st := setup(t, "e4 f2 g1", "b6 a4 a1", board.O)
	want, _ := move.FromString("b6-a7")
	s := NewSolver(nil)
	s.SetHorizon(500 * time.Millisecond)
	s.SetCutoffDepth(1)
	res := s.Search(context.Background(), AlgoAlphaBetaCutoff, st)
	is.Equal(res.Move, want)
	is.Equal(res.Value, float64(game.WinScore))
}

func TestTiesGoToFirstMove(t *testing.T) {
	is := is.New(t)
	st, _ := game.InitialState(7, 7)
	s := NewSolver(nil)
	s.SetCutoffDepth(0)
	res := s.Search(context.Background(), AlgoAlphaBetaCutoff, st)
	// every opening placement scores zero
	is.True(res.Complete)
	is.Equal(len(res.Values), board.NumPoints)
	is.Equal(res.Move, move.NewPlacement(board.Intersection{Row: 0, Col: 0}))
}

func TestAlphaBetaAgreesWithMinimax(t *testing.T) {
	is := is.New(t)
	// X has three ways to close the a-file, worth a mill each. The other
	// three moves open a line for 2, and every O reply then ends the search
	// with O at -2 or worse.
	st := setup(t, "a7 b4 c4 c3 d3 b2 d2 a1 d1", "d7 g7 b6 f6 c5 d5 e5 d6", board.X)
	s := NewSolver(nil)
	s.SetHorizon(5 * time.Second)
	mm := s.Search(context.Background(), AlgoMinimax, st)
	mmNodes := s.Nodes()
	ab := s.Search(context.Background(), AlgoAlphaBeta, st)
	is.True(mm.Complete)
	is.True(ab.Complete)
	is.Equal(mmNodes, uint64(15))
	is.True(s.Nodes() <= mmNodes)

	is.Equal(mm.Move.ShortDescription(), "a7-a4")
	is.Equal(mm.Value, 3.0)
	is.Equal(ab.Move, mm.Move)
	is.Equal(ab.Value, mm.Value)

	// Root values are exact, not the bounds a narrowed window would leave.
	want := map[string]float64{
		"a7-a4": 3, "b4-a4": 3, "d3-e3": 2, "d2-f2": 2, "a1-a4": 3, "d1-g1": 2,
	}
	is.Equal(len(mm.Values), len(want))
	is.Equal(len(ab.Values), len(want))
	for i, rv := range mm.Values {
		is.Equal(rv.Value, want[rv.Move.ShortDescription()])
		is.Equal(ab.Values[i], rv)
	}
}

func TestExpectimaxAveragesReplies(t *testing.T) {
	is := is.New(t)
	st := setup(t, "b6 a4 d2 e3", "e4 f2 g1 c3", board.X)
	s := NewSolver(nil)
	s.SetHorizon(5 * time.Second)
	s.SetCutoffDepth(1)
	ex := s.Search(context.Background(), AlgoExpectimax, st)
	ab := s.Search(context.Background(), AlgoAlphaBetaCutoff, st)
	is.True(ex.Complete)
	is.True(ab.Complete)

	root := st.AsSearchRoot()
	is.Equal(len(ex.Values), root.NumActions())
	is.Equal(len(ab.Values), root.NumActions())
	differs := false
	for i, m := range root.Actions() {
		child := root.Apply(m)
		// replies are past the cutoff, so each scores its own utility
		want := float64(child.Utility(board.X))
		worst := want
		if !child.IsTerminal() {
			var sum float64
			worst = Infinity
			for _, r := range child.Actions() {
				u := float64(child.Apply(r).Utility(board.X))
				sum += u
				worst = min(worst, u)
			}
			want = sum / float64(child.NumActions())
		}
		is.Equal(ex.Values[i].Move, m)
		is.True(stats.FuzzyEqual(ex.Values[i].Value, want))
		is.Equal(ab.Values[i].Value, worst)
		if !stats.FuzzyEqual(want, worst) {
			differs = true
		}
	}
	is.True(differs)

	byMove := func(vals []RootValue, desc string) float64 {
		m, err := move.FromString(desc)
		is.NoErr(err)
		for _, rv := range vals {
			if rv.Move == m {
				return rv.Value
			}
		}
		t.Fatalf("no value for %s", desc)
		return 0
	}
	is.True(stats.FuzzyEqual(byMove(ex.Values, "d2-b2"), 1.75))
	is.True(stats.FuzzyEqual(byMove(ex.Values, "b6-d6"), -0.125))
	is.Equal(byMove(ab.Values, "b6-d6"), -2.0)
	is.Equal(ex.Move.ShortDescription(), "d2-b2")
}

func TestCustomEvaluator(t *testing.T) {
	is := is.New(t)
	st, _ := game.InitialState(7, 7)
	s := NewSolver(nil)
	s.SetCutoffDepth(0)
	// prefer the last point on the board
	s.SetEvaluator(func(st *game.State, player board.Symbol) float64 {
		return float64(board.Index(st.LastMove().To()))
	})
	is.Equal(s.AlphaBetaCutoff(context.Background(), st), move.NewPlacement(board.Intersection{Row: 6, Col: 6}))
	s.SetEvaluator(nil)
	is.Equal(s.AlphaBetaCutoff(context.Background(), st), move.NewPlacement(board.Intersection{Row: 0, Col: 0}))
}

func TestSettings(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigCutoffDepth, -1)
	cfg.Set(config.ConfigSearchHorizon, "2s")
	s := NewSolver(cfg)
	is.Equal(s.CutoffDepth(), 4)
	is.Equal(s.Horizon(), 2*time.Second)
	s.SetHorizon(0)
	is.Equal(s.Horizon(), config.DefaultSearchHorizon)
	is.Equal(AlgoExpectimax.String(), "expectimax-cutoff")
}

func TestLogStream(t *testing.T) {
	is := is.New(t)
	st := setup(t, "b6 a4 a1", "e4 f2 g1", board.X)
	var buf bytes.Buffer
	s := NewSolver(nil)
	s.SetCutoffDepth(1)
	s.SetLogStream(&buf)
	s.AlphaBetaCutoff(context.Background(), st)
	s.Expectimax(context.Background(), st)

	var decisions []LogDecision
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &decisions))
	is.Equal(len(decisions), 2)
	is.Equal(decisions[0].Algorithm, "alphabeta-cutoff")
	is.Equal(decisions[0].Chosen, "b6-a7")
	is.Equal(decisions[0].Cutoff, 1)
	is.Equal(decisions[1].Algorithm, "expectimax-cutoff")
	is.Equal(decisions[1].Player, "X")
	is.True(len(decisions[1].Moves) > 1)
}
