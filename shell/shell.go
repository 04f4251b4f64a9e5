// Package shell is the interactive front end: a readline loop over a small
// command language for playing and analyzing games.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/morris/ai/player"
	"github.com/domino14/morris/automatic"
	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
	errAutoplaying       = errors.New("autoplay is running, please do `autoplay stop` first")
	errQuit              = errors.New("sending quit signal")
)

const prompt = "\033[31mmorris>\033[0m "

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	runner    *automatic.GameRunner
	source    player.MoveSource
	picked    board.Intersection
	hasPicked bool

	searchLog *os.File

	sync.Mutex
	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
	lastSummary    *automatic.Summary
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, nil)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/morris-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.source = &readlineSource{sc: sc}
	return sc
}

// newController sets up everything except the terminal.
func newController(cfg *config.Config, out io.Writer) *ShellController {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sc := &ShellController{config: cfg, out: out}
	if path := cfg.GetString(config.ConfigSearchLogPath); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Err(err).Str("path", path).Msg("could-not-open-search-log")
		} else {
			sc.searchLog = f
		}
	}
	return sc
}

func (sc *ShellController) playerOptions() player.Options {
	opts := player.Options{Config: sc.config, Source: sc.source}
	if sc.searchLog != nil {
		opts.SearchLog = sc.searchLog
	}
	return opts
}

func (sc *ShellController) state() (*game.State, error) {
	if sc.runner == nil || sc.runner.State() == nil {
		return nil, errNoGame
	}
	return sc.runner.State(), nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if isOption(fields[i]) {
			if i+1 >= len(fields) {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// isOption is true for -name but not for negative numbers.
func isOption(f string) bool {
	if len(f) < 2 || f[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(f, 64)
	return err != nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	}
	return sc.dispatch(cmd)
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.generate(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "pick":
		return sc.pick(cmd)
	case "ai":
		return sc.aiplay(cmd)
	case "next", "n":
		return sc.next(cmd)
	case "set":
		return sc.set(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Debug().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, for non-interactive use.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		if !errors.Is(err, errNoData) && !errors.Is(err, errQuit) {
			sc.showError(err)
		}
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	// a batch started from the command line should finish before we exit
	sc.Lock()
	done := sc.autoplayDone
	sc.Unlock()
	if done != nil {
		<-done
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {
		sc.l.SetPrompt(prompt)
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			if !errors.Is(err, errNoData) {
				sc.showError(err)
			}
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops background work and closes files.
func (sc *ShellController) Cleanup() {
	sc.stopAutoplay()
	if sc.searchLog != nil {
		if err := sc.searchLog.Close(); err != nil {
			log.Err(err).Msg("closing-search-log")
		}
	}
}

// readlineSource asks the person at the terminal for moves.
type readlineSource struct {
	sc *ShellController
}

func (s *readlineSource) NextMove(ctx context.Context, st *game.State, msg string) (string, error) {
	s.sc.showMessage(st.ToDisplayText())
	s.sc.l.SetPrompt(msg + "> ")
	defer s.sc.l.SetPrompt(prompt)
	line, err := s.sc.l.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
