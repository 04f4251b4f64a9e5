package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/game"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a morris position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	oToMove uint64

	posTable [board.NumPoints][2]uint64
	// pieces still in hand, per player
	handTable [2][game.PiecesPerPlayer + 1]uint64
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	for i := range z.handTable {
		for j := range z.handTable[i] {
			z.handTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.oToMove = frand.Uint64n(bignum) + 1
}

func symIdx(s board.Symbol) int {
	if s == board.O {
		return 1
	}
	return 0
}

func inHand(p game.PlayerRecord) int {
	return max(0, game.PiecesPerPlayer-p.Placed)
}

func (z *Zobrist) Hash(st *game.State) uint64 {
	key := uint64(0)
	for i := range board.NumPoints {
		s := st.Occupant(board.At(i))
		if s == board.Empty {
			continue
		}
		key ^= z.posTable[i][symIdx(s)]
	}
	for i, sym := range []board.Symbol{board.X, board.O} {
		key ^= z.handTable[i][inHand(st.Player(sym))]
	}
	if st.PlayerOnTurn() == board.O {
		key ^= z.oToMove
	}
	return key
}

// AddMove updates key, the hash of before, to the hash of after. The two
// states must be one ply apart.
func (z *Zobrist) AddMove(key uint64, before, after *game.State) uint64 {
	for i := range board.NumPoints {
		p := board.At(i)
		was, now := before.Occupant(p), after.Occupant(p)
		if was == now {
			continue
		}
		if was != board.Empty {
			key ^= z.posTable[i][symIdx(was)]
		}
		if now != board.Empty {
			key ^= z.posTable[i][symIdx(now)]
		}
	}
	for i, sym := range []board.Symbol{board.X, board.O} {
		h0, h1 := inHand(before.Player(sym)), inHand(after.Player(sym))
		if h0 != h1 {
			key ^= z.handTable[i][h0]
			key ^= z.handTable[i][h1]
		}
	}
	if before.PlayerOnTurn() != after.PlayerOnTurn() {
		key ^= z.oToMove
	}
	return key
}
