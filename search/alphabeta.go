package search

import (
	"context"

	"github.com/domino14/morris/game"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            if value ≥ β then
                break (* β cut-off *)
            α := max(α, value)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            if value ≤ α then
                break (* α cut-off *)
            β := min(β, value)
        return value
**/

// alphabeta returns the value of st for the maximizing player. depth counts
// plies from the root; when cutoff is set, nodes deeper than the solver's
// cutoff depth, and terminal nodes, are scored by the evaluator instead of
// the raw utility.
func (s *Solver) alphabeta(ctx context.Context, st *game.State, α, β float64,
	depth int, cutoff bool) (float64, error) {

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes++
	if cutoff {
		if depth > s.cutoff || st.IsTerminal() {
			return s.eval(st, s.maximizer), nil
		}
	} else if st.IsTerminal() {
		return float64(st.Utility(s.maximizer)), nil
	}

	if st.PlayerOnTurn() == s.maximizer {
		v := -Infinity
		for i := range st.NumActions() {
			cv, err := s.alphabeta(ctx, st.Apply(st.Action(i)), α, β, depth+1, cutoff)
			if err != nil {
				return v, err
			}
			v = max(v, cv)
			if v >= β {
				return v, nil
			}
			α = max(α, v)
		}
		return v, nil
	}

	v := Infinity
	for i := range st.NumActions() {
		cv, err := s.alphabeta(ctx, st.Apply(st.Action(i)), α, β, depth+1, cutoff)
		if err != nil {
			return v, err
		}
		v = min(v, cv)
		if v <= α {
			return v, nil
		}
		β = min(β, v)
	}
	return v, nil
}
