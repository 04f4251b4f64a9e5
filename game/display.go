package game

import (
	"fmt"
	"strings"

	"github.com/domino14/morris/board"
)

// ToDisplayText turns the current state of the game into a displayable
// string, with the player records next to the board.
func (st *State) ToDisplayText() string {
	bt := board.ToDisplayText(st.Occupant)
	lines := strings.Split(strings.TrimRight(bt, "\n"), "\n")
	hpadding := 4

	info := make([]string, 0, 6)
	for i, p := range st.players {
		marker := " "
		if i == st.onturn {
			marker = "*"
		}
		info = append(info, fmt.Sprintf("%s %v", marker, p))
	}
	info = append(info, "")
	if !st.lastMove.IsPass() {
		info = append(info, fmt.Sprintf("Last move: %s", st.lastMove.ShortDescription()))
	}
	if len(st.captured) > 0 {
		info = append(info, fmt.Sprintf("Captured: %v", st.captured))
	}
	info = append(info, fmt.Sprintf("Utility (X): %d  Legal moves: %d", st.utility, len(st.moves)))
	if st.GameOver() {
		info = append(info, fmt.Sprintf("Game over. %v wins.", st.Winner()))
	}

	for i, s := range info {
		row := i + 1
		if row >= len(lines) {
			break
		}
		lines[row] = fmt.Sprintf("%-28s%s%s", lines[row], strings.Repeat(" ", hpadding), s)
	}
	return strings.Join(lines, "\n") + "\n"
}
