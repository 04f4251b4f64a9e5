package board

// A Symbol is what occupies an intersection.
type Symbol byte

const (
	Empty Symbol = '.'
	X     Symbol = 'X'
	O     Symbol = 'O'
)

// Opponent returns the other player's symbol. Empty has no opponent.
func (s Symbol) Opponent() Symbol {
	switch s {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

func (s Symbol) String() string {
	return string(s)
}
