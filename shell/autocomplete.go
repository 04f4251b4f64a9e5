package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/morris/ai/player"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
	"github.com/domino14/morris/search"
)

// ShellCompleter completes command names, options and, for play and pick,
// points on the board.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

type CommandMetadata struct {
	Options []string
	Args    []string
}

var playerKinds = lo.Map(player.Kinds, func(k player.Kind, _ int) string { return string(k) })

var commandMetadata = map[string]CommandMetadata{
	"ai": {
		Options: []string{"-horizon", "-cutoff"},
		Args: []string{search.AlgoMinimax.String(), search.AlgoAlphaBeta.String(),
			search.AlgoAlphaBetaCutoff.String(), search.AlgoExpectimax.String()},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-logfile"},
		Args:    append([]string{"stop", "show"}, playerKinds...),
	},
	"set":  {Args: settable},
	"help": {Args: []string{"play", "pick", "ai", "set", "autoplay", "script"}},
}

var commandNames = []string{
	"help", "new", "show", "s", "gen", "play", "p", "pick", "ai", "next", "n",
	"set", "autoplay", "script", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		// the argument being typed, counting from 1
		argPos := len(fields)
		if !endsWithSpace {
			argPos--
		}

		switch {
		case cmdName == "set" && argPos == 2:
			switch fields[1] {
			case "player1", "player2":
				completions = playerKinds
			case "flying":
				completions = boolValues
			}
		case cmdName == "play" || cmdName == "p" || cmdName == "pick":
			completions = c.movePoints(cmdName == "pick")
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// movePoints lists the points a legal move starts from (for pick) or goes to.
func (c *ShellCompleter) movePoints(from bool) []string {
	sc := c.sc
	if sc.runner == nil || sc.runner.State() == nil {
		return nil
	}
	st := sc.runner.State()
	return lo.Uniq(lo.Map(sc.choices(st), func(m move.Move, _ int) string {
		if from && m.Action() == move.MoveTypeRelocate {
			return m.From().String()
		}
		if !from && st.Player(st.PlayerOnTurn()).Phase == game.Relocating && !sc.hasPicked {
			return m.ShortDescription()
		}
		return m.To().String()
	}))
}
