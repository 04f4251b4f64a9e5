package game

// ScoreInput describes what a move achieved, from the mover's side.
type ScoreInput struct {
	// OpponentBeaten is set when the opponent is left with fewer than three
	// pieces or no legal move.
	OpponentBeaten   bool
	MillFormed       bool
	AdjacentOwn      bool
	OpenLine         bool
	AdjacentOpponent bool
}

// Score returns the utility change for the mover. The first condition that
// holds decides the score.
func Score(in ScoreInput) int {
	switch {
	case in.OpponentBeaten:
		return WinScore
	case in.MillFormed:
		return 3
	case in.AdjacentOwn:
		return 1
	case in.OpenLine:
		return 2
	case in.AdjacentOpponent:
		return -1
	}
	return 0
}
