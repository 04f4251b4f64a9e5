package move

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/domino14/morris/board"
)

// MoveType is a type of move; a placement of a new piece, a relocation of a
// piece already on the board, or a pass.
type MoveType uint8

const (
	MoveTypePass MoveType = iota
	MoveTypePlace
	MoveTypeRelocate
)

// Move is a single action. It is a small comparable value, so moves may be
// used as map keys and compared with ==.
type Move struct {
	action MoveType
	from   board.Intersection
	to     board.Intersection
}

// NoMove is returned when there is nothing legal to do. Playing it passes
// the turn.
var NoMove = Move{action: MoveTypePass}

var ErrUnrecognizedMove = errors.New("unrecognized move")

var reRelocation = regexp.MustCompile(`^\s*(\S+?)\s*(?:-|\s|to|->)\s*(\S+)\s*$`)

// NewPlacement puts a new piece on to.
func NewPlacement(to board.Intersection) Move {
	return Move{action: MoveTypePlace, to: to}
}

// NewRelocation slides (or flies) the piece on from to to.
func NewRelocation(from, to board.Intersection) Move {
	return Move{action: MoveTypeRelocate, from: from, to: to}
}

func (m Move) Action() MoveType {
	return m.action
}

// From is the origin of a relocation. It is meaningless for other moves.
func (m Move) From() board.Intersection {
	return m.from
}

// To is the intersection the piece ends up on.
func (m Move) To() board.Intersection {
	return m.to
}

func (m Move) IsPass() bool {
	return m.action == MoveTypePass
}

// ShortDescription is the notation a user would type for this move.
func (m Move) ShortDescription() string {
	switch m.action {
	case MoveTypePlace:
		return m.to.String()
	case MoveTypeRelocate:
		return m.from.String() + "-" + m.to.String()
	}
	return "pass"
}

func (m Move) String() string {
	switch m.action {
	case MoveTypePlace:
		return fmt.Sprintf("<action: place %v>", m.to)
	case MoveTypeRelocate:
		return fmt.Sprintf("<action: relocate %v to %v>", m.from, m.to)
	}
	return "<action: pass>"
}

// FromString parses user text. A single point ("d6") is a placement, two
// points ("d6-d5", "d6 d5", "(1,3) to (2,3)") a relocation, and "pass" is
// NoMove. Parsing does not check legality.
func FromString(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "pass" || s == "-" {
		return NoMove, nil
	}
	if p, err := board.Parse(s); err == nil {
		return NewPlacement(p), nil
	}
	parts := reRelocation.FindStringSubmatch(s)
	if parts == nil {
		return NoMove, fmt.Errorf("%w: %s", ErrUnrecognizedMove, s)
	}
	from, err := board.Parse(parts[1])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %s: %w", ErrUnrecognizedMove, s, err)
	}
	to, err := board.Parse(parts[2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %s: %w", ErrUnrecognizedMove, s, err)
	}
	return NewRelocation(from, to), nil
}
