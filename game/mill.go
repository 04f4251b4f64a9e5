package game

import (
	"slices"
	"sort"

	"github.com/domino14/morris/board"
)

// DetectMills finds every mill in owned that includes pos. Each neighbour n
// of pos that is also owned is reflected both ways along the pos-n segment;
// if either reflected point is owned, the three points form a mill. Mills are
// returned with their points in board index order, each once.
func DetectMills(owned board.Mask, pos board.Intersection) []board.Line {
	if !owned.Has(pos) {
		return nil
	}
	var mills []board.Line
	for _, n := range board.Neighbors(pos) {
		if !owned.Has(n) {
			continue
		}
		delta := pos.Sub(n)
		third, ok := n.Sub(delta), false
		if board.IsIntersection(third) && owned.Has(third) {
			ok = true
		} else {
			third = pos.Add(delta)
			ok = board.IsIntersection(third) && owned.Has(third)
		}
		if !ok {
			continue
		}
		mill := canonicalLine(pos, n, third)
		if !slices.Contains(mills, mill) {
			mills = append(mills, mill)
		}
	}
	return mills
}

func canonicalLine(a, b, c board.Intersection) board.Line {
	l := board.Line{a, b, c}
	sort.Slice(l[:], func(i, j int) bool {
		return board.Index(l[i]) < board.Index(l[j])
	})
	return l
}

// InMill returns true if p is part of a complete line in owned.
func InMill(owned board.Mask, p board.Intersection) bool {
	for _, l := range board.LinesThrough(p) {
		if owned.Has(l[0]) && owned.Has(l[1]) && owned.Has(l[2]) {
			return true
		}
	}
	return false
}

// CaptureTarget picks the opponent piece to remove when a mill is formed:
// the first piece, in board order, that is not part of one of the
// opponent's own mills, or failing that the first piece. It returns false if
// the opponent has nothing on the board.
func CaptureTarget(opponent board.Mask) (board.Intersection, bool) {
	pieces := opponent.Points()
	if len(pieces) == 0 {
		return board.Intersection{}, false
	}
	for _, p := range pieces {
		if !InMill(opponent, p) {
			return p, true
		}
	}
	return pieces[0], true
}
