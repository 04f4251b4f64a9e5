package search

import (
	"context"

	"github.com/domino14/morris/game"
	"github.com/domino14/morris/stats"
)

// expectimax values a node below the root as the mean of its children's
// values, as if every move from there on were picked uniformly at random.
// Nodes past the cutoff depth, and terminal nodes, are scored by the
// evaluator.
func (s *Solver) expectimax(ctx context.Context, st *game.State, depth int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes++
	if depth > s.cutoff || st.IsTerminal() {
		return s.eval(st, s.maximizer), nil
	}
	var outcome stats.Statistic
	for i := range st.NumActions() {
		v, err := s.expectimax(ctx, st.Apply(st.Action(i)), depth+1)
		if err != nil {
			return outcome.Mean(), err
		}
		outcome.Push(v)
	}
	return outcome.Mean(), nil
}
