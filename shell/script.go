package shell

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/morris/board"
)

// commands a script may call, as morris_<name>.
var scriptCommands = []string{"new", "show", "gen", "play", "pick", "ai", "next", "set", "autoplay"}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("morris_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command. The Lua function takes the rest of the
// command line and returns the command's output.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(strings.TrimSpace(name + " " + lv))
		if err != nil {
			log.Err(err).Msg("error-parsing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.dispatch(cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
		} else {
			L.Push(lua.LString(r.message))
		}
		// return number of results pushed to stack.
		return 1
	}
}

func GameOver(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LBool(sc.runner != nil && sc.runner.Result() != nil))
	return 1
}

// scriptState is what morris_state hands to a script.
type scriptState struct {
	GameID   string            `json:"game_id"`
	ToMove   string            `json:"to_move"`
	Depth    int               `json:"depth"`
	Utility  int               `json:"utility"`
	Board    map[string]string `json:"board"`
	Moves    []string          `json:"moves"`
	GameOver bool              `json:"game_over"`
	Winner   string            `json:"winner,omitempty"`
}

// State pushes the current game as a table, or nil with no game.
func State(L *lua.LState) int {
	sc := getShell(L)
	st, err := sc.state()
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	ss := scriptState{
		GameID:  sc.runner.GameID(),
		ToMove:  st.PlayerOnTurn().String(),
		Depth:   st.Depth(),
		Utility: st.Utility(board.X),
		Board:   map[string]string{},
	}
	for _, p := range board.Points() {
		if o := st.Occupant(p); o != board.Empty {
			ss.Board[p.String()] = o.String()
		}
	}
	for _, m := range st.Actions() {
		ss.Moves = append(ss.Moves, m.ShortDescription())
	}
	if res := sc.runner.Result(); res != nil {
		ss.GameOver = true
		if res.Winner != board.Empty {
			ss.Winner = res.Winner.String()
		}
	}
	bts, err := json.Marshal(ss)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	lv, err := luajson.Decode(L, bts)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lv)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("morris_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("morris_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("morris_game_over", L.NewFunction(GameOver))
	L.SetGlobal("morris_state", L.NewFunction(State))
	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{}).Loader)

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
