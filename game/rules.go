package game

import (
	"errors"
	"fmt"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/move"
)

type Variant string

const (
	VarClassic Variant = "classic"
	// VarFlying lets a player who is down to three pieces move any of them
	// to any vacant intersection.
	VarFlying Variant = "flying"
)

const (
	// PiecesPerPlayer is the number of pieces each player places.
	PiecesPerPlayer = 9
	// FlyingPieces is the live-piece count at which flying kicks in.
	FlyingPieces = 3
	// MaxDepth is the ply depth, relative to the search root, at which a
	// state is considered terminal.
	MaxDepth = 20

	WinThreshold  = 3
	LossThreshold = -2
	WinScore      = 100
)

var (
	ErrUnsupportedDimensions = errors.New("unsupported board dimensions")
	ErrUnsupportedVariant    = errors.New("unsupported variant")
)

// Rules is an immutable set of parameters shared by every state of a game.
type Rules struct {
	variant  Variant
	pieces   int
	maxDepth int
}

// ClassicRules are the rules with no flying.
var ClassicRules = &Rules{variant: VarClassic, pieces: PiecesPerPlayer, maxDepth: MaxDepth}

// NewRules returns the rules for the given variant.
func NewRules(v Variant) (*Rules, error) {
	switch v {
	case VarClassic, "":
		return ClassicRules, nil
	case VarFlying:
		return &Rules{variant: VarFlying, pieces: PiecesPerPlayer, maxDepth: MaxDepth}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedVariant, v)
}

func (r *Rules) Variant() Variant {
	return r.variant
}

func (r *Rules) Flying() bool {
	return r.variant == VarFlying
}

func (r *Rules) PiecesPerPlayer() int {
	return r.pieces
}

// InitialState returns an empty board with X to move and both players
// placing.
func (r *Rules) InitialState(rows, cols int) (*State, error) {
	if rows != board.Dim || cols != board.Dim {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupportedDimensions, rows, cols)
	}
	st := &State{rules: r, lastMove: move.NoMove}
	for i := range st.cells {
		st.cells[i] = board.Empty
	}
	st.players[0] = PlayerRecord{Symbol: board.X, Phase: Placing, LivePieces: r.pieces}
	st.players[1] = PlayerRecord{Symbol: board.O, Phase: Placing, LivePieces: r.pieces}
	st.moves = st.actionsFor(0)
	return st, nil
}

// InitialState returns the starting position under the classic rules.
func InitialState(rows, cols int) (*State, error) {
	return ClassicRules.InitialState(rows, cols)
}
