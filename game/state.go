package game

import (
	"slices"

	"github.com/samber/lo"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/move"
)

// State is an immutable snapshot of a game. Every method that changes the
// game returns a new *State and leaves the receiver untouched, so states may
// be shared freely between search branches.
type State struct {
	rules   *Rules
	players [2]PlayerRecord
	onturn  int
	cells   [board.NumPoints]board.Symbol
	// moves are the legal moves for the side to move. The slice is never
	// written after the state is built.
	moves []move.Move
	// utility accumulates heuristic deltas from X's point of view.
	utility int
	depth   int

	lastMove move.Move
	captured []board.Intersection
}

func (st *State) Rules() *Rules {
	return st.rules
}

// PlayerOnTurn returns the symbol of the side to move.
func (st *State) PlayerOnTurn() board.Symbol {
	return st.players[st.onturn].Symbol
}

func (st *State) playerIdx(sym board.Symbol) int {
	if sym == board.O {
		return 1
	}
	return 0
}

// Player returns a copy of the record for sym.
func (st *State) Player(sym board.Symbol) PlayerRecord {
	return st.players[st.playerIdx(sym)]
}

// Occupant returns the symbol on p, or board.Empty.
func (st *State) Occupant(p board.Intersection) board.Symbol {
	return st.cells[board.Index(p)]
}

// Actions returns the legal moves for the side to move.
func (st *State) Actions() []move.Move {
	return slices.Clone(st.moves)
}

func (st *State) NumActions() int {
	return len(st.moves)
}

// IsLegal returns true if m may be played in this position.
func (st *State) IsLegal(m move.Move) bool {
	if m.IsPass() {
		return false
	}
	return slices.Contains(st.moves, m)
}

// Depth is the number of plies since the search root.
func (st *State) Depth() int {
	return st.depth
}

// Utility returns the accumulated heuristic score from the point of view of
// sym.
func (st *State) Utility(sym board.Symbol) int {
	if sym == board.O {
		return -st.utility
	}
	return st.utility
}

// LastMove is the move that produced this state, or NoMove.
func (st *State) LastMove() move.Move {
	return st.lastMove
}

// Captured lists the intersections cleared by the move that produced this
// state.
func (st *State) Captured() []board.Intersection {
	return slices.Clone(st.captured)
}

func (st *State) vacant() board.Mask {
	return (st.players[0].Occupied | st.players[1].Occupied).Complement()
}

func (st *State) canFly(pr PlayerRecord) bool {
	return st.rules.Flying() && pr.Phase == Relocating && pr.LivePieces == FlyingPieces
}

// actionsFor generates moves for player idx in the current position.
func (st *State) actionsFor(idx int) []move.Move {
	pr := st.players[idx]
	vacant := st.vacant()
	if pr.Phase == Placing {
		return lo.Map(vacant.Points(), func(p board.Intersection, _ int) move.Move {
			return move.NewPlacement(p)
		})
	}
	fly := st.canFly(pr)
	var moves []move.Move
	for _, from := range pr.Occupied.Points() {
		var targets []board.Intersection
		if fly {
			targets = vacant.Points()
		} else {
			targets = lo.Filter(board.Neighbors(from), func(n board.Intersection, _ int) bool {
				return vacant.Has(n)
			})
		}
		for _, to := range targets {
			moves = append(moves, move.NewRelocation(from, to))
		}
	}
	return moves
}

// Apply plays m and returns the resulting state. An illegal move is ignored
// and the receiver is returned as is.
func (st *State) Apply(m move.Move) *State {
	if !st.IsLegal(m) {
		return st
	}
	next := *st
	next.captured = nil
	me := &next.players[next.onturn]
	opp := &next.players[1-next.onturn]
	to := m.To()

	switch m.Action() {
	case move.MoveTypePlace:
		me.Placed++
	case move.MoveTypeRelocate:
		me.Occupied = me.Occupied.Remove(m.From())
		next.cells[board.Index(m.From())] = board.Empty
	}
	me.Occupied = me.Occupied.Add(to)
	me.HasPicked = false
	next.cells[board.Index(to)] = me.Symbol

	mills := DetectMills(me.Occupied, to)
	for range mills {
		victim, ok := CaptureTarget(opp.Occupied)
		if !ok {
			break
		}
		opp.Occupied = opp.Occupied.Remove(victim)
		opp.LivePieces--
		next.cells[board.Index(victim)] = board.Empty
		next.captured = append(next.captured, victim)
	}

	oppMoves := next.actionsFor(1 - next.onturn)
	delta := Score(ScoreInput{
		OpponentBeaten:   opp.LivePieces < FlyingPieces || len(oppMoves) == 0,
		MillFormed:       len(mills) > 0,
		AdjacentOwn:      adjacentTo(me.Occupied, to),
		OpenLine:         openLine(me.Occupied, opp.Occupied, to),
		AdjacentOpponent: adjacentTo(opp.Occupied, to),
	})
	if me.Symbol == board.O {
		delta = -delta
	}
	next.utility += delta

	if me.Phase == Placing && me.Placed == next.rules.pieces {
		me.Phase = Relocating
	}

	next.moves = oppMoves
	next.onturn = 1 - next.onturn
	next.depth++
	next.lastMove = m
	return &next
}

// Pass hands the turn to the other side without changing the board.
func (st *State) Pass() *State {
	next := *st
	next.captured = nil
	next.onturn = 1 - next.onturn
	next.moves = next.actionsFor(next.onturn)
	next.depth++
	next.lastMove = move.NoMove
	return &next
}

// AsSearchRoot returns a copy of the state with utility and depth reset, so
// that the terminal test's thresholds are measured from this position.
func (st *State) AsSearchRoot() *State {
	next := *st
	next.utility = 0
	next.depth = 0
	return &next
}

// WithPicked returns a copy of the state where sym has selected the piece on
// p for relocation. It does not validate p.
func (st *State) WithPicked(sym board.Symbol, p board.Intersection) *State {
	next := *st
	pr := &next.players[next.playerIdx(sym)]
	pr.Picked = p
	pr.HasPicked = true
	return &next
}

// IsTerminal is the search cutoff test. It is a heuristic: a large enough
// swing in utility, or reaching MaxDepth plies from the root, ends the
// search without the game actually being over.
func (st *State) IsTerminal() bool {
	last := st.players[1-st.onturn]
	u := st.Utility(last.Symbol)
	return last.LivePieces <= 2 ||
		len(st.moves) == 0 ||
		st.depth >= st.rules.maxDepth ||
		u >= WinThreshold ||
		u <= LossThreshold
}

// GameOver returns true if the side to move has lost: it is down to fewer
// than three pieces or cannot move.
func (st *State) GameOver() bool {
	return st.players[st.onturn].LivePieces < FlyingPieces || len(st.moves) == 0
}

// Winner returns the winning symbol if the game is over, and board.Empty
// otherwise.
func (st *State) Winner() board.Symbol {
	if !st.GameOver() {
		return board.Empty
	}
	return st.players[1-st.onturn].Symbol
}

func adjacentTo(m board.Mask, p board.Intersection) bool {
	return lo.SomeBy(board.Neighbors(p), m.Has)
}

// openLine returns true if a line through p holds exactly one other piece of
// own and its remaining point is vacant.
func openLine(own, other board.Mask, p board.Intersection) bool {
	for _, l := range board.LinesThrough(p) {
		mine, free := 0, 0
		for _, q := range l {
			if q == p {
				continue
			}
			switch {
			case own.Has(q):
				mine++
			case !other.Has(q):
				free++
			}
		}
		if mine == 1 && free == 1 {
			return true
		}
	}
	return false
}
