// Package search implements the adversarial searches the computer players
// use: plain minimax, alpha-beta, depth-limited alpha-beta with a static
// evaluator, and an expectation search that treats every reply as uniformly
// random. All of them are anytime: a decision is bounded by a wall-clock
// horizon, and when it passes the best fully evaluated root move is
// returned.
package search

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
)

const (
	// Infinity bounds every value a search can produce.
	Infinity = 10000000.0
)

type Algorithm int

const (
	AlgoMinimax Algorithm = iota
	AlgoAlphaBeta
	AlgoAlphaBetaCutoff
	AlgoExpectimax
)

func (a Algorithm) String() string {
	switch a {
	case AlgoMinimax:
		return "minimax"
	case AlgoAlphaBeta:
		return "alphabeta"
	case AlgoAlphaBetaCutoff:
		return "alphabeta-cutoff"
	case AlgoExpectimax:
		return "expectimax-cutoff"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// Cutoff returns true if the algorithm stops at the solver's cutoff depth.
func (a Algorithm) Cutoff() bool {
	return a == AlgoAlphaBetaCutoff || a == AlgoExpectimax
}

// An Evaluator scores a frontier state from player's point of view.
type Evaluator func(st *game.State, player board.Symbol) float64

// UtilityEvaluator is the default evaluator: the state's accumulated
// utility for player.
func UtilityEvaluator(st *game.State, player board.Symbol) float64 {
	return float64(st.Utility(player))
}

// Solver holds the search settings. A Solver is not safe for concurrent
// use; give each goroutine its own.
type Solver struct {
	horizon   time.Duration
	cutoff    int
	eval      Evaluator
	logStream io.Writer

	maximizer board.Symbol
	nodes     uint64
}

// NewSolver returns a solver configured from cfg. A nil cfg gives the
// defaults.
func NewSolver(cfg *config.Config) *Solver {
	s := &Solver{
		horizon: config.DefaultSearchHorizon,
		cutoff:  config.DefaultCutoffDepth,
		eval:    UtilityEvaluator,
	}
	if cfg != nil {
		s.SetHorizon(cfg.GetDuration(config.ConfigSearchHorizon))
		s.SetCutoffDepth(cfg.GetInt(config.ConfigCutoffDepth))
	}
	return s
}

// SetHorizon sets the wall-clock budget for one decision. Non-positive
// values restore the default.
func (s *Solver) SetHorizon(d time.Duration) {
	if d <= 0 {
		d = config.DefaultSearchHorizon
	}
	s.horizon = d
}

func (s *Solver) Horizon() time.Duration {
	return s.horizon
}

// SetCutoffDepth sets the ply limit for the cutoff searches. A negative
// depth means the default.
func (s *Solver) SetCutoffDepth(d int) {
	if d < 0 {
		d = config.DefaultCutoffDepth
	}
	s.cutoff = d
}

func (s *Solver) CutoffDepth() int {
	return s.cutoff
}

// SetEvaluator replaces the static evaluator. nil restores the default.
func (s *Solver) SetEvaluator(e Evaluator) {
	if e == nil {
		e = UtilityEvaluator
	}
	s.eval = e
}

// SetLogStream makes every decision write a YAML record to w.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// Nodes is the number of nodes visited by the last decision.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

// RootValue is the value the search gave one root move.
type RootValue struct {
	Move  move.Move
	Value float64
}

type Result struct {
	Move  move.Move
	Value float64
	// Values holds the exact value of every fully evaluated root move, in
	// move order.
	Values []RootValue
	Nodes  uint64
	// Complete is false if the horizon passed before all root moves were
	// evaluated.
	Complete bool
	Elapsed  time.Duration
}

func (s *Solver) Minimax(ctx context.Context, st *game.State) move.Move {
	return s.Search(ctx, AlgoMinimax, st).Move
}

func (s *Solver) AlphaBeta(ctx context.Context, st *game.State) move.Move {
	return s.Search(ctx, AlgoAlphaBeta, st).Move
}

func (s *Solver) AlphaBetaCutoff(ctx context.Context, st *game.State) move.Move {
	return s.Search(ctx, AlgoAlphaBetaCutoff, st).Move
}

func (s *Solver) Expectimax(ctx context.Context, st *game.State) move.Move {
	return s.Search(ctx, AlgoExpectimax, st).Move
}

// Search picks a move for the side to move in st. It never fails: with no
// legal moves it returns move.NoMove, and if the horizon passes (or ctx is
// cancelled) it returns the best root move evaluated so far, or the first
// legal move if none was.
func (s *Solver) Search(ctx context.Context, algo Algorithm, st *game.State) Result {
	ctx, cancel := context.WithTimeout(ctx, s.horizon)
	defer cancel()

	tstart := time.Now()
	root := st.AsSearchRoot()
	s.maximizer = root.PlayerOnTurn()
	s.nodes = 0

	log.Debug().Str("algorithm", algo.String()).
		Str("player", s.maximizer.String()).
		Dur("horizon", s.horizon).
		Int("cutoff", s.cutoff).
		Int("root-moves", root.NumActions()).
		Msg("search-config")

	res := Result{Move: move.NoMove, Complete: true}
	if root.NumActions() == 0 {
		s.finish(algo, &res, tstart)
		return res
	}
	res.Move = root.Action(0)
	best := -Infinity
	// Each root move gets a full window so that Values holds exact values
	// rather than bounds. Pruning starts one ply down.
	for i := range root.NumActions() {
		a := root.Action(i)
		child := root.Apply(a)
		var v float64
		var err error
		switch algo {
		case AlgoMinimax:
			v, err = s.minimax(ctx, child)
		case AlgoAlphaBeta:
			v, err = s.alphabeta(ctx, child, -Infinity, Infinity, 1, false)
		case AlgoAlphaBetaCutoff:
			v, err = s.alphabeta(ctx, child, -Infinity, Infinity, 1, true)
		case AlgoExpectimax:
			v, err = s.expectimax(ctx, child, 1)
		}
		if err != nil {
			log.Debug().Err(err).Int("evaluated", i).Msg("search-interrupted")
			res.Complete = false
			break
		}
		res.Values = append(res.Values, RootValue{Move: a, Value: v})
		if v > best {
			best = v
			res.Move = a
			res.Value = v
		}
	}
	s.finish(algo, &res, tstart)
	return res
}

func (s *Solver) finish(algo Algorithm, res *Result, tstart time.Time) {
	res.Nodes = s.nodes
	res.Elapsed = time.Since(tstart)
	log.Debug().Str("algorithm", algo.String()).
		Str("move", res.Move.ShortDescription()).
		Float64("value", res.Value).
		Uint64("nodes", res.Nodes).
		Bool("complete", res.Complete).
		Dur("elapsed", res.Elapsed).
		Msg("search-returning")
	if s.logStream != nil {
		s.writeLog(algo, res)
	}
}

// LogDecision is a decision serialized to the search log.
type LogDecision struct {
	Algorithm string      `json:"algorithm" yaml:"algorithm"`
	Player    string      `json:"player" yaml:"player"`
	Cutoff    int         `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Chosen    string      `json:"chosen" yaml:"chosen"`
	Nodes     uint64      `json:"nodes" yaml:"nodes"`
	ElapsedMs int64       `json:"elapsed_ms" yaml:"elapsed_ms"`
	Complete  bool        `json:"complete" yaml:"complete"`
	Moves     []LogAction `json:"moves,omitempty" yaml:"moves,omitempty"`
}

// LogAction is a single root move and its value.
type LogAction struct {
	Move  string  `json:"move" yaml:"move"`
	Value float64 `json:"value" yaml:"value"`
}

func (s *Solver) writeLog(algo Algorithm, res *Result) {
	d := LogDecision{
		Algorithm: algo.String(),
		Player:    s.maximizer.String(),
		Chosen:    res.Move.ShortDescription(),
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Complete:  res.Complete,
	}
	if algo.Cutoff() {
		d.Cutoff = s.cutoff
	}
	for _, rv := range res.Values {
		d.Moves = append(d.Moves, LogAction{Move: rv.Move.ShortDescription(), Value: rv.Value})
	}
	out, err := yaml.Marshal([]LogDecision{d})
	if err != nil {
		log.Err(err).Msg("marshal-search-log")
		return
	}
	if _, err := s.logStream.Write(out); err != nil {
		log.Err(err).Msg("write-search-log")
	}
}
