package automatic

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/morris/ai/player"
	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
)

// scripted plays a fixed list of moves, in order.
type scripted struct {
	moves []string
}

func (s *scripted) ChooseMove(ctx context.Context, st *game.State) (move.Move, error) {
	m, err := move.FromString(s.moves[0])
	s.moves = s.moves[1:]
	return m, err
}

func (s *scripted) Name() string { return "scripted" }

func pts(t *testing.T, list string) []board.Intersection {
	t.Helper()
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

func TestRandomGameFinishes(t *testing.T) {
	is := is.New(t)
	runner := NewGameRunner(nil, config.DefaultConfig())
	is.NoErr(runner.Init("random", "random", player.Options{}))

	res, err := runner.PlayGame(context.Background())
	is.NoErr(err)
	is.True(res != nil)
	is.Equal(res.ID, runner.GameID())
	is.True(res.Plies > 0)
	is.True(!runner.Playing())
	switch res.Reason {
	case EndWin:
		is.True(res.Winner != board.Empty)
		is.True(runner.State().GameOver())
	case EndMaxTurns:
		is.Equal(res.Plies, 200)
		is.Equal(res.Winner, board.Empty)
	case EndRepetition:
		is.Equal(res.Winner, board.Empty)
	default:
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestPlayMoveRejectsIllegal(t *testing.T) {
	is := is.New(t)
	runner := NewGameRunner(nil, nil)
	is.NoErr(runner.StartGame())

	m, _ := move.FromString("d6")
	is.NoErr(runner.PlayMove(m))
	is.True(runner.PlayMove(m) != nil) // d6 is taken now
	is.Equal(runner.State().Occupant(m.To()), board.X)
	is.Equal(runner.State().PlayerOnTurn(), board.O)

	is.True(runner.PlayMove(move.NoMove) != nil) // O has moves
}

func TestNoGame(t *testing.T) {
	is := is.New(t)
	runner := NewGameRunner(nil, nil)
	_, err := runner.PlayTurn(context.Background())
	is.Equal(err, ErrNoGame)
}

func TestLogLines(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 10)
	runner := NewGameRunner(logchan, nil)
	is.NoErr(runner.StartGame())
	runner.SetPlayer(board.X, &scripted{moves: []string{"a7", "d7"}})
	runner.SetPlayer(board.O, &scripted{moves: []string{"g1"}})

	for range 3 {
		_, err := runner.PlayTurn(context.Background())
		is.NoErr(err)
	}
	close(logchan)
	var lines []string
	for l := range logchan {
		lines = append(lines, l)
	}
	is.Equal(len(lines), 3)
	is.Equal(lines[0], "X,"+runner.GameID()+",1,a7,0,9,9,0\n")
	is.Equal(lines[1], "O,"+runner.GameID()+",2,g1,0,9,9,0\n")
	// d7 is next to a7: one point for an adjacent own piece
	is.Equal(lines[2], "X,"+runner.GameID()+",3,d7,0,9,9,1\n")
}

func TestRepetitionIsADraw(t *testing.T) {
	is := is.New(t)
	st, err := game.ClassicRules.FromPosition(game.Position{
		X: pts(t, "a7 d6 g4"),
		O: pts(t, "a1 d2 g1"),
	})
	is.NoErr(err)

	runner := NewGameRunner(nil, nil)
	runner.StartFrom(st)
	runner.SetPlayer(board.X, &scripted{moves: []string{"d6-d5", "d5-d6", "d6-d5", "d5-d6"}})
	runner.SetPlayer(board.O, &scripted{moves: []string{"d2-d3", "d3-d2", "d2-d3", "d3-d2"}})

	for runner.Playing() {
		_, err := runner.PlayTurn(context.Background())
		is.NoErr(err)
	}
	res := runner.Result()
	is.Equal(res.Reason, EndRepetition)
	is.Equal(res.Winner, board.Empty)
	is.Equal(res.Plies, 8)
	is.Equal(res.LivePieces, [2]int{3, 3})

	_, err = runner.PlayTurn(context.Background())
	is.Equal(err, ErrGameOver)
}

func TestMaxTurns(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMaxTurns, 2)
	runner := NewGameRunner(nil, cfg)
	is.NoErr(runner.StartGame())
	runner.SetPlayer(board.X, &scripted{moves: []string{"a7"}})
	runner.SetPlayer(board.O, &scripted{moves: []string{"g1"}})
	for runner.Playing() {
		_, err := runner.PlayTurn(context.Background())
		is.NoErr(err)
	}
	is.Equal(runner.Result().Reason, EndMaxTurns)
	is.Equal(runner.Result().Plies, 2)
}

func TestStartFromFinishedPosition(t *testing.T) {
	is := is.New(t)
	// O is down to two pieces
	st, err := game.ClassicRules.FromPosition(game.Position{
		X:      pts(t, "a7 d6 g4"),
		O:      pts(t, "a1 d2"),
		ToMove: board.O,
	})
	is.NoErr(err)
	runner := NewGameRunner(nil, nil)
	runner.StartFrom(st)
	is.True(!runner.Playing())
	is.Equal(runner.Result().Winner, board.X)
	is.Equal(runner.Result().Plies, 0)
}

func TestFlyingFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigFlying, true)
	runner := NewGameRunner(nil, cfg)
	is.NoErr(runner.Init("random", "random", player.Options{}))
	is.True(runner.Rules().Flying())

	is.True(runner.Init("random", "gnubg", player.Options{}) != nil)
}

func TestCompVsComp(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	summary, err := CompVsComp(context.Background(), config.DefaultConfig(),
		"random", "random", 6, 2, &buf)
	is.NoErr(err)
	is.Equal(summary.Games(), 6)
	is.Equal(summary.Wins(board.X)+summary.Wins(board.O)+summary.Draws(), 6)
	is.Equal(CVCCounter.Value(), int64(6))
	is.Equal(IsPlaying.Value(), int64(0))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(lines[0]+"\n", logHeader)
	total := 0
	for _, r := range summary.Results {
		total += r.Plies
	}
	is.Equal(len(lines)-1, total)

	out := summary.String()
	is.True(strings.Contains(out, "Games played: 6"))
	is.True(strings.Contains(out, "Game length histogram"))
}

func TestCompVsCompNeedsComputers(t *testing.T) {
	is := is.New(t)
	_, err := CompVsComp(context.Background(), nil, "Human", "random", 1, 1, nil)
	is.True(err != nil)
}

func TestCompVsCompCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := CompVsComp(ctx, config.DefaultConfig(), "random", "random", 50, 2, nil)
	is.NoErr(err)
	is.True(summary.Games() < 50)
}

var errDiskFull = errors.New("disk full")

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errDiskFull
}

func TestCompVsCompLogWriteFails(t *testing.T) {
	is := is.New(t)
	w := &failingWriter{}
	summary, err := CompVsComp(context.Background(), config.DefaultConfig(),
		"random", "random", 3, 2, w)
	is.True(errors.Is(err, errDiskFull))
	// the games still finish, and the log is not retried
	is.Equal(summary.Games(), 3)
	is.Equal(w.writes, 1)
}

func TestCompVsCompOneBatchAtATime(t *testing.T) {
	is := is.New(t)
	batchRunning.Store(true)
	_, err := CompVsComp(context.Background(), config.DefaultConfig(), "random", "random", 1, 1, nil)
	is.Equal(err, ErrAlreadyPlaying)
	// a refused batch does not release the running one
	is.True(batchRunning.Load())
	batchRunning.Store(false)

	summary, err := CompVsComp(context.Background(), config.DefaultConfig(), "random", "random", 1, 1, nil)
	is.NoErr(err)
	is.Equal(summary.Games(), 1)
	is.True(!batchRunning.Load())
}
