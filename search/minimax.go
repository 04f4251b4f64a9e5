package search

import (
	"context"

	"github.com/domino14/morris/game"
)

// minimax searches until the terminal test. It returns the value of st for
// the maximizing player.
func (s *Solver) minimax(ctx context.Context, st *game.State) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes++
	if st.IsTerminal() {
		return float64(st.Utility(s.maximizer)), nil
	}
	maximizing := st.PlayerOnTurn() == s.maximizer
	v := Infinity
	if maximizing {
		v = -Infinity
	}
	for i := range st.NumActions() {
		cv, err := s.minimax(ctx, st.Apply(st.Action(i)))
		if err != nil {
			return v, err
		}
		if maximizing {
			v = max(v, cv)
		} else {
			v = min(v, cv)
		}
	}
	return v, nil
}
