package game

import (
	"errors"
	"fmt"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/move"
)

var ErrBadPosition = errors.New("bad position")

// Position describes a game in progress, for setting up problems and tests.
type Position struct {
	X, O []board.Intersection
	// XPlaced and OPlaced default to PiecesPerPlayer, that is, a position
	// where both sides are relocating.
	XPlaced, OPlaced int
	// ToMove defaults to X when left unset.
	ToMove board.Symbol
}

// FromPosition builds a state at depth 0 with zero utility. Each player's
// live pieces are the ones on the board plus the ones not yet placed.
func (r *Rules) FromPosition(pos Position) (*State, error) {
	st := &State{rules: r, lastMove: move.NoMove}
	for i := range st.cells {
		st.cells[i] = board.Empty
	}
	placed := [2]int{pos.XPlaced, pos.OPlaced}
	for i, pts := range [][]board.Intersection{pos.X, pos.O} {
		sym := []board.Symbol{board.X, board.O}[i]
		pr := PlayerRecord{Symbol: sym, Placed: placed[i]}
		if pr.Placed == 0 {
			pr.Placed = r.pieces
		}
		for _, p := range pts {
			if !board.IsIntersection(p) {
				return nil, fmt.Errorf("%w: %v is not an intersection", ErrBadPosition, p)
			}
			if st.cells[board.Index(p)] != board.Empty {
				return nil, fmt.Errorf("%w: %v is listed twice", ErrBadPosition, p)
			}
			pr.Occupied = pr.Occupied.Add(p)
			st.cells[board.Index(p)] = sym
		}
		if pr.Placed > r.pieces || pr.Occupied.Count() > pr.Placed {
			return nil, fmt.Errorf("%w: %v has %d on board after %d placements",
				ErrBadPosition, sym, pr.Occupied.Count(), pr.Placed)
		}
		pr.LivePieces = pr.Occupied.Count() + r.pieces - pr.Placed
		if pr.Placed == r.pieces {
			pr.Phase = Relocating
		}
		st.players[i] = pr
	}
	switch pos.ToMove {
	case board.X, board.Empty, 0:
		st.onturn = 0
	case board.O:
		st.onturn = 1
	default:
		return nil, fmt.Errorf("%w: unknown side to move %q", ErrBadPosition, pos.ToMove)
	}
	st.moves = st.actionsFor(st.onturn)
	return st, nil
}

// Action returns the i-th legal move without copying the move list.
func (st *State) Action(i int) move.Move {
	return st.moves[i]
}
