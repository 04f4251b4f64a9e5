package board

import (
	"strings"
)

// The drawn board, corner diagonals included. Each 'o' is replaced with
// the occupant of the corresponding intersection, in row-major order.
var template = []string{
	"o-----------o-----------o",
	"| \\         |         / |",
	"|   o-------o-------o   |",
	"|   | \\     |     / |   |",
	"|   |   o---o---o   |   |",
	"|   |   |       |   |   |",
	"o---o---o       o---o---o",
	"|   |   |       |   |   |",
	"|   |   o---o---o   |   |",
	"|   | /     |     \\ |   |",
	"|   o-------o-------o   |",
	"| /         |         \\ |",
	"o-----------o-----------o",
}

// ToDisplayText draws the board, asking occupant for the symbol on each
// intersection.
func ToDisplayText(occupant func(Intersection) Symbol) string {
	var sb strings.Builder
	idx := 0
	for i, row := range template {
		if i%2 == 0 {
			sb.WriteString(string(rune('0' + Dim - i/2)))
			sb.WriteString("  ")
		} else {
			sb.WriteString("   ")
		}
		for _, ch := range row {
			if ch == 'o' {
				sb.WriteByte(byte(occupant(points[idx])))
				idx++
				continue
			}
			sb.WriteRune(ch)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("   a   b   c   d   e   f   g\n")
	return sb.String()
}
