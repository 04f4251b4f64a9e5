package player

import (
	"context"

	"lukechampine.com/frand"

	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
)

// RandomPlayer picks uniformly among the legal moves.
type RandomPlayer struct{}

func (p *RandomPlayer) ChooseMove(ctx context.Context, st *game.State) (move.Move, error) {
	n := st.NumActions()
	if n == 0 {
		return move.NoMove, nil
	}
	return st.Action(frand.Intn(n)), nil
}

func (p *RandomPlayer) Name() string {
	return string(KindRandom)
}
