package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/morris/ai/player"
	"github.com/domino14/morris/automatic"
	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
	"github.com/domino14/morris/search"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) autoplaying() bool {
	sc.Lock()
	defer sc.Unlock()
	return sc.autoplayDone != nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if sc.autoplaying() {
		return nil, errAutoplaying
	}
	r := automatic.NewGameRunner(nil, sc.config)
	err := r.Init(sc.config.GetString(config.ConfigPlayer1),
		sc.config.GetString(config.ConfigPlayer2), sc.playerOptions())
	if err != nil {
		return nil, err
	}
	if err := r.StartGame(); err != nil {
		return nil, err
	}
	sc.runner = r
	sc.hasPicked = false
	return msg(fmt.Sprintf("New game %v: %v (X) vs %v (O)\n%v", r.GameID(),
		r.Player(board.X).Name(), r.Player(board.O).Name(), sc.displayText())), nil
}

// displayText shows the current position, with any picked-up piece.
func (sc *ShellController) displayText() string {
	st := sc.runner.State()
	if sc.hasPicked {
		st = st.WithPicked(st.PlayerOnTurn(), sc.picked)
	}
	out := st.ToDisplayText()
	if res := sc.runner.Result(); res != nil {
		if res.Winner == board.Empty {
			out += fmt.Sprintf("\nGame drawn by %v after %d plies.", res.Reason, res.Plies)
		} else {
			out += fmt.Sprintf("\nGame over: %v wins after %d plies.", res.Winner, res.Plies)
		}
	}
	return out
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if _, err := sc.state(); err != nil {
		return nil, err
	}
	return msg(sc.displayText()), nil
}

// choices is the move list that gen numbers: every legal move, or only
// those of the picked-up piece.
func (sc *ShellController) choices(st *game.State) []move.Move {
	moves := st.Actions()
	if !sc.hasPicked {
		return moves
	}
	return lo.Filter(moves, func(m move.Move, _ int) bool {
		return m.Action() == move.MoveTypeRelocate && m.From() == sc.picked
	})
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	moves := sc.choices(st)
	if len(moves) == 0 {
		return msg("No legal moves."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d legal moves for %v:\n", len(moves), st.PlayerOnTurn())
	for i, m := range moves {
		fmt.Fprintf(&sb, "%3d: %s\n", i+1, m.ShortDescription())
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// parseMove reads a move typed at the shell: #n from the gen list, a full
// relocation, or a single point. A single point is a destination when a
// piece has been picked up.
func (sc *ShellController) parseMove(st *game.State, args []string) (move.Move, error) {
	if len(args) == 0 {
		return move.NoMove, errors.New("play <point> | <from>-<to> | #<n>")
	}
	text := strings.Join(args, " ")
	if strings.HasPrefix(text, "#") {
		idx, err := strconv.Atoi(text[1:])
		if err != nil {
			return move.NoMove, err
		}
		moves := sc.choices(st)
		if idx < 1 || idx > len(moves) {
			return move.NoMove, errors.New("play outside range")
		}
		return moves[idx-1], nil
	}
	m, err := move.FromString(text)
	if err != nil {
		return move.NoMove, err
	}
	if sc.hasPicked && m.Action() == move.MoveTypePlace {
		m = move.NewRelocation(sc.picked, m.To())
	}
	return m, nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	m, err := sc.parseMove(st, cmd.args)
	if err != nil {
		return nil, err
	}
	if err := sc.runner.PlayMove(m); err != nil {
		return nil, err
	}
	sc.hasPicked = false
	return msg("Played " + m.ShortDescription() + "\n" + sc.displayText()), nil
}

func (sc *ShellController) pick(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("pick <point>")
	}
	p, err := board.Parse(cmd.args[0])
	if err != nil {
		return nil, err
	}
	me := st.Player(st.PlayerOnTurn())
	if me.Phase != game.Relocating {
		return nil, errors.New("pieces can only be picked up once all are placed")
	}
	if !me.Occupied.Has(p) {
		return nil, fmt.Errorf("there is no %v piece on %v", me.Symbol, p)
	}
	dests := lo.FilterMap(st.Actions(), func(m move.Move, _ int) (string, bool) {
		return m.To().String(), m.From() == p && m.Action() == move.MoveTypeRelocate
	})
	if len(dests) == 0 {
		return nil, fmt.Errorf("the piece on %v cannot move", p)
	}
	sc.picked, sc.hasPicked = p, true
	return msg(fmt.Sprintf("%v\nPicked up %v; it can go to %s",
		sc.displayText(), p, strings.Join(dests, " "))), nil
}

func algorithmFromString(s string) (search.Algorithm, error) {
	for _, a := range []search.Algorithm{search.AlgoMinimax, search.AlgoAlphaBeta,
		search.AlgoAlphaBetaCutoff, search.AlgoExpectimax} {
		if strings.EqualFold(a.String(), s) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown search algorithm %q", s)
}

// aiplay searches the current position and plays the best move found.
func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	if !sc.runner.Playing() {
		return nil, automatic.ErrGameOver
	}
	algo := search.AlgoAlphaBetaCutoff
	if len(cmd.args) > 0 {
		if algo, err = algorithmFromString(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	solver := search.NewSolver(sc.config)
	if h := cmd.options.String("horizon"); h != "" {
		d, err := time.ParseDuration(h)
		if err != nil {
			return nil, err
		}
		solver.SetHorizon(d)
	}
	if _, ok := cmd.options["cutoff"]; ok {
		c, err := cmd.options.Int("cutoff")
		if err != nil {
			return nil, err
		}
		solver.SetCutoffDepth(c)
	}
	if sc.searchLog != nil {
		solver.SetLogStream(sc.searchLog)
	}

	res := solver.Search(context.Background(), algo, st)
	if res.Move.IsPass() && st.NumActions() > 0 {
		return nil, errors.New("search did not return a move")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v searched %d nodes in %v (complete: %v)\n",
		algo, res.Nodes, res.Elapsed.Round(time.Millisecond), res.Complete)
	vals := slices.Clone(res.Values)
	slices.SortStableFunc(vals, func(a, b search.RootValue) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
	for _, v := range vals {
		fmt.Fprintf(&sb, "  %-8s %8.2f\n", v.Move.ShortDescription(), v.Value)
	}
	if err := sc.runner.PlayMove(res.Move); err != nil {
		return nil, err
	}
	sc.hasPicked = false
	fmt.Fprintf(&sb, "Played %s\n%s", res.Move.ShortDescription(), sc.displayText())
	return msg(sb.String()), nil
}

// next lets the strategy configured for the side to move take its turn.
func (sc *ShellController) next(cmd *shellcmd) (*Response, error) {
	if _, err := sc.state(); err != nil {
		return nil, err
	}
	p := sc.runner.Player(sc.runner.State().PlayerOnTurn())
	m, err := sc.runner.PlayTurn(context.Background())
	if err != nil {
		return nil, err
	}
	sc.hasPicked = false
	return msg(fmt.Sprintf("%v played %v\n%v", p.Name(), m.ShortDescription(), sc.displayText())), nil
}

var settable = []string{
	config.ConfigPlayer1, config.ConfigPlayer2, config.ConfigFlying,
	config.ConfigSearchHorizon, config.ConfigCutoffDepth, config.ConfigMaxTurns,
	config.ConfigHumanMaxAttempts, config.ConfigAutoplayGames, config.ConfigAutoplayThreads,
}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, key := range settable {
		sb.WriteString("  " + key + ": " + sc.config.GetString(key) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// set changes a config value for this session. Player and variant changes
// apply to the next game. The config is shared with a running autoplay
// batch, so it may not change until the batch is over.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	opt := cmd.args[0]
	if !slices.Contains(settable, opt) {
		return nil, fmt.Errorf("no such option: %v", opt)
	}
	if len(cmd.args) == 1 {
		return msg(sc.config.GetString(opt)), nil
	}
	if sc.autoplaying() {
		return nil, errAutoplaying
	}
	val := cmd.args[1]
	switch opt {
	case config.ConfigPlayer1, config.ConfigPlayer2:
		kind := player.Kind(strings.ToLower(val))
		if !slices.Contains(player.Kinds, kind) {
			return nil, fmt.Errorf("%w: %q", player.ErrUnknownKind, val)
		}
		sc.config.Set(opt, string(kind))
	case config.ConfigFlying:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(opt, b)
	case config.ConfigSearchHorizon:
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(opt, d)
	default:
		i, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(opt, i)
	}
	log.Debug().Str("option", opt).Str("value", val).Msg("set-option")
	return msg("set " + opt + " to " + sc.config.GetString(opt)), nil
}

// autoplay starts a batch of computer games in the background.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 {
		switch cmd.args[0] {
		case "stop":
			if !sc.autoplaying() {
				return nil, errors.New("autoplay is not running")
			}
			sc.stopAutoplay()
			return msg("autoplay stopped"), nil
		case "show":
			sc.Lock()
			defer sc.Unlock()
			if sc.autoplayDone != nil {
				return msg(fmt.Sprintf("%d games played so far", automatic.CVCCounter.Value())), nil
			}
			if sc.lastSummary == nil {
				return nil, errors.New("no autoplay results yet")
			}
			return msg(sc.lastSummary.String()), nil
		}
	}
	if sc.autoplaying() {
		return nil, errAutoplaying
	}
	p1, p2 := "alphabeta-cutoff", "random"
	switch len(cmd.args) {
	case 0:
	case 2:
		p1, p2 = cmd.args[0], cmd.args[1]
	default:
		return nil, errors.New("autoplay [player1 player2] [-games n] [-threads n] [-logfile path]")
	}
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	var logfile *os.File
	if path := cmd.options.String("logfile"); path != "" {
		if logfile, err = os.Create(path); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.Lock()
	sc.autoplayCancel, sc.autoplayDone = cancel, done
	sc.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		var w io.Writer
		if logfile != nil {
			w = logfile
			defer logfile.Close()
		}
		summary, err := automatic.CompVsComp(ctx, sc.config, p1, p2, games, threads, w)
		if err != nil {
			sc.showError(err)
		}
		sc.Lock()
		if summary != nil {
			sc.lastSummary = summary
		}
		sc.autoplayCancel, sc.autoplayDone = nil, nil
		sc.Unlock()
		if summary != nil {
			sc.showMessage(summary.String())
		}
	}()
	return msg(fmt.Sprintf("Started %d games of %v vs %v on %d threads", games, p1, p2, threads)), nil
}

func (sc *ShellController) stopAutoplay() {
	sc.Lock()
	cancel, done := sc.autoplayCancel, sc.autoplayDone
	sc.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
