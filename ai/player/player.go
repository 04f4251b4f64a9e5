// Package player holds the strategies that decide moves for each side of a
// game: a human behind some input source, a uniformly random chooser, and
// adapters over each of the searches.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
	"github.com/domino14/morris/search"
)

// Strategy picks a move for the side to move. It returns move.NoMove when
// there is no legal move. An error means the strategy could not produce a
// decision at all, for example because its input went away.
type Strategy interface {
	ChooseMove(ctx context.Context, st *game.State) (move.Move, error)
	Name() string
}

type Kind string

const (
	KindHuman           Kind = "human"
	KindRandom          Kind = "random"
	KindMinimax         Kind = "minimax"
	KindAlphaBeta       Kind = "alphabeta"
	KindAlphaBetaCutoff Kind = "alphabeta-cutoff"
	KindExpectimax      Kind = "expectimax-cutoff"
)

// Kinds lists every strategy the registry can build.
var Kinds = []Kind{KindHuman, KindRandom, KindMinimax, KindAlphaBeta, KindAlphaBetaCutoff, KindExpectimax}

var (
	ErrUnknownKind  = errors.New("unknown player type")
	ErrNoMoveSource = errors.New("a human player needs a move source")
)

// Options are the collaborators a strategy may need. Any of them may be
// left zero if the requested kind doesn't use it.
type Options struct {
	Config *config.Config
	// Source is where a human's moves come from.
	Source MoveSource
	// SearchLog receives a YAML record of every search decision.
	SearchLog io.Writer
}

// New builds the strategy named by kind.
func New(kind string, opts Options) (Strategy, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switch k := Kind(strings.ToLower(strings.TrimSpace(kind))); k {
	case KindHuman:
		if opts.Source == nil {
			return nil, ErrNoMoveSource
		}
		return NewHumanPlayer(opts.Source, cfg.GetInt(config.ConfigHumanMaxAttempts)), nil
	case KindRandom:
		return &RandomPlayer{}, nil
	case KindMinimax, KindAlphaBeta, KindAlphaBetaCutoff, KindExpectimax:
		solver := search.NewSolver(cfg)
		if opts.SearchLog != nil {
			solver.SetLogStream(opts.SearchLog)
		}
		return NewSearchPlayer(solver, algorithmFor(k)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func algorithmFor(k Kind) search.Algorithm {
	switch k {
	case KindAlphaBeta:
		return search.AlgoAlphaBeta
	case KindAlphaBetaCutoff:
		return search.AlgoAlphaBetaCutoff
	case KindExpectimax:
		return search.AlgoExpectimax
	}
	return search.AlgoMinimax
}

// SearchPlayer plays whatever its search decides.
type SearchPlayer struct {
	solver *search.Solver
	algo   search.Algorithm
}

func NewSearchPlayer(solver *search.Solver, algo search.Algorithm) *SearchPlayer {
	return &SearchPlayer{solver: solver, algo: algo}
}

func (p *SearchPlayer) ChooseMove(ctx context.Context, st *game.State) (move.Move, error) {
	return p.solver.Search(ctx, p.algo, st).Move, nil
}

func (p *SearchPlayer) Name() string {
	return p.algo.String()
}

// Solver exposes the underlying solver so its settings can be changed.
func (p *SearchPlayer) Solver() *search.Solver {
	return p.solver
}
