package game

import (
	"fmt"

	"github.com/domino14/morris/board"
)

// Phase is the stage a single player is in. The two players change phase
// independently.
type Phase uint8

const (
	Placing Phase = iota
	Relocating
)

func (p Phase) String() string {
	if p == Placing {
		return "placing"
	}
	return "relocating"
}

// PlayerRecord is everything the engine knows about one side. It is a value
// type; a State never shares one with another State.
type PlayerRecord struct {
	Symbol board.Symbol
	Phase  Phase
	// LivePieces counts pieces still to be placed plus pieces on the board.
	// It starts at PiecesPerPlayer and only ever goes down.
	LivePieces int
	// Placed counts placements made so far.
	Placed   int
	Occupied board.Mask

	// Picked is the piece an interactive player has selected to relocate.
	// Search ignores it.
	Picked    board.Intersection
	HasPicked bool
}

func (p PlayerRecord) OnBoard() int {
	return p.Occupied.Count()
}

func (p PlayerRecord) String() string {
	s := fmt.Sprintf("%v: %v, %d live, %d on board", p.Symbol, p.Phase, p.LivePieces, p.OnBoard())
	if p.HasPicked {
		s += fmt.Sprintf(", picked %v", p.Picked)
	}
	return s
}
