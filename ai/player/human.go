package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
)

var ErrTooManyAttempts = errors.New("too many invalid moves")

// MoveSource supplies a human's moves as text. prompt says what is wanted,
// including why the previous entry was rejected.
type MoveSource interface {
	NextMove(ctx context.Context, st *game.State, prompt string) (string, error)
}

// HumanPlayer reads moves from a MoveSource and plays them only if they are
// legal. Input is parsed as move notation and nothing else.
type HumanPlayer struct {
	source      MoveSource
	maxAttempts int
}

// NewHumanPlayer returns a human player that gives up after maxAttempts
// rejected entries. Zero means ask forever.
func NewHumanPlayer(source MoveSource, maxAttempts int) *HumanPlayer {
	return &HumanPlayer{source: source, maxAttempts: maxAttempts}
}

func (p *HumanPlayer) Name() string {
	return string(KindHuman)
}

// ChooseMove keeps asking until the source gives a legal move. While
// relocating, a lone point that holds one of the player's pieces picks that
// piece up, and a following lone point is its destination.
func (p *HumanPlayer) ChooseMove(ctx context.Context, st *game.State) (move.Move, error) {
	sym := st.PlayerOnTurn()
	if st.NumActions() == 0 {
		log.Info().Str("player", sym.String()).Msg("no legal moves; passing turn")
		return move.NoMove, nil
	}
	cur := st
	prompt := fmt.Sprintf("%v to move (%v)", sym, st.Player(sym).Phase)
	rejected := 0
	for {
		text, err := p.source.NextMove(ctx, cur, prompt)
		if err != nil {
			return move.NoMove, err
		}
		m, err := move.FromString(text)
		if err == nil && m.IsPass() {
			err = errors.New("cannot pass while a legal move exists")
		}
		if err == nil {
			me := cur.Player(sym)
			if m.Action() == move.MoveTypePlace && me.Phase == game.Relocating {
				switch {
				case me.Occupied.Has(m.To()):
					cur = cur.WithPicked(sym, m.To())
					prompt = fmt.Sprintf("%v picked up %v; where to?", sym, m.To())
					continue
				case me.HasPicked:
					m = move.NewRelocation(me.Picked, m.To())
				}
			}
			if cur.IsLegal(m) {
				return m, nil
			}
			err = fmt.Errorf("illegal move: %s", m.ShortDescription())
		}
		rejected++
		log.Debug().Err(err).Int("rejected", rejected).Msg("human-move-rejected")
		if p.maxAttempts > 0 && rejected >= p.maxAttempts {
			return move.NoMove, fmt.Errorf("%w: %w", ErrTooManyAttempts, err)
		}
		prompt = fmt.Sprintf("%v. %v to move (%v)", err, sym, cur.Player(sym).Phase)
	}
}
