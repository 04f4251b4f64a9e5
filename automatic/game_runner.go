// Package automatic drives games between two strategies, either one game at
// a time for the shell or many computer-vs-computer games at once.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/morris/ai/player"
	"github.com/domino14/morris/board"
	"github.com/domino14/morris/config"
	"github.com/domino14/morris/game"
	"github.com/domino14/morris/move"
	"github.com/domino14/morris/zobrist"
)

// RepetitionLimit is how many times a position may occur before the game is
// declared drawn.
const RepetitionLimit = 3

var (
	ErrNoGame     = errors.New("no game in progress")
	ErrGameOver   = errors.New("game is over")
	ErrNoStrategy = errors.New("no strategy set for player")
)

type EndReason string

const (
	EndWin        EndReason = "win"
	EndMaxTurns   EndReason = "max-turns"
	EndRepetition EndReason = "repetition"
)

// GameResult is the outcome of a finished game. Winner is board.Empty for a
// draw.
type GameResult struct {
	ID         string
	Winner     board.Symbol
	Reason     EndReason
	Plies      int
	LivePieces [2]int
}

// GameRunner is the master struct here for the automatic game logic. It
// owns the current state of one game and the strategy for each side.
type GameRunner struct {
	config  *config.Config
	rules   *game.Rules
	logchan chan string
	players [2]player.Strategy

	state  *game.State
	gameID string
	ply    int
	result *GameResult

	zobrist *zobrist.Zobrist
	key     uint64
	seen    map[uint64]int
}

// NewGameRunner just instantiates a game runner. Call Init to pick the
// players.
func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	z := &zobrist.Zobrist{}
	z.Initialize()
	return &GameRunner{logchan: logchan, config: cfg, zobrist: z}
}

// Init sets the rules from the config and builds both strategies.
func (r *GameRunner) Init(player1, player2 string, opts player.Options) error {
	variant := game.VarClassic
	if r.config.GetBool(config.ConfigFlying) {
		variant = game.VarFlying
	}
	rules, err := game.NewRules(variant)
	if err != nil {
		return err
	}
	r.rules = rules
	if opts.Config == nil {
		opts.Config = r.config
	}
	for i, kind := range []string{player1, player2} {
		p, err := player.New(kind, opts)
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		r.players[i] = p
	}
	return nil
}

// SetPlayer replaces the strategy for one side.
func (r *GameRunner) SetPlayer(sym board.Symbol, p player.Strategy) {
	r.players[idxOf(sym)] = p
}

func (r *GameRunner) Player(sym board.Symbol) player.Strategy {
	return r.players[idxOf(sym)]
}

func idxOf(sym board.Symbol) int {
	if sym == board.O {
		return 1
	}
	return 0
}

// StartGame sets up a fresh board.
func (r *GameRunner) StartGame() error {
	if r.rules == nil {
		r.rules = game.ClassicRules
	}
	st, err := r.rules.InitialState(board.Dim, board.Dim)
	if err != nil {
		return err
	}
	r.StartFrom(st)
	return nil
}

// StartFrom begins a game from an arbitrary state, such as one built with
// game.Rules.FromPosition.
func (r *GameRunner) StartFrom(st *game.State) {
	if r.rules == nil {
		r.rules = st.Rules()
	}
	r.state = st
	r.gameID = uuid.NewString()
	r.ply = 0
	r.result = nil
	r.key = r.zobrist.Hash(st)
	r.seen = map[uint64]int{r.key: 1}
	r.checkEnd()
	log.Debug().Str("game-id", r.gameID).Str("variant", string(st.Rules().Variant())).Msg("game-started")
}

func (r *GameRunner) Rules() *game.Rules {
	return r.rules
}

// SetRules takes effect at the next StartGame.
func (r *GameRunner) SetRules(rules *game.Rules) {
	r.rules = rules
}

func (r *GameRunner) State() *game.State {
	return r.state
}

func (r *GameRunner) GameID() string {
	return r.gameID
}

// Result is nil while the game is still being played.
func (r *GameRunner) Result() *GameResult {
	return r.result
}

func (r *GameRunner) Playing() bool {
	return r.state != nil && r.result == nil
}

// PlayMove plays m for the side to move. An illegal move is an error here,
// unlike in the engine, since it came from outside.
func (r *GameRunner) PlayMove(m move.Move) error {
	if r.state == nil {
		return ErrNoGame
	}
	if r.result != nil {
		return ErrGameOver
	}
	if m.IsPass() {
		if r.state.NumActions() > 0 {
			return errors.New("cannot pass while a legal move exists")
		}
		r.advance(m, r.state.Pass())
		return nil
	}
	next := r.state.Apply(m)
	if next == r.state {
		return fmt.Errorf("illegal move: %s", m.ShortDescription())
	}
	r.advance(m, next)
	return nil
}

// PlayTurn asks the strategy of the side to move for a move and plays it.
func (r *GameRunner) PlayTurn(ctx context.Context) (move.Move, error) {
	if r.state == nil {
		return move.NoMove, ErrNoGame
	}
	if r.result != nil {
		return move.NoMove, ErrGameOver
	}
	sym := r.state.PlayerOnTurn()
	p := r.players[idxOf(sym)]
	if p == nil {
		return move.NoMove, fmt.Errorf("%w %v", ErrNoStrategy, sym)
	}
	m, err := p.ChooseMove(ctx, r.state)
	if err != nil {
		return move.NoMove, err
	}
	if err := r.PlayMove(m); err != nil {
		return move.NoMove, fmt.Errorf("%s chose %s: %w", p.Name(), m.ShortDescription(), err)
	}
	return m, nil
}

// PlayGame plays a fresh game to the end.
func (r *GameRunner) PlayGame(ctx context.Context) (*GameResult, error) {
	if err := r.StartGame(); err != nil {
		return nil, err
	}
	for r.Playing() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := r.PlayTurn(ctx); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("game-id", r.gameID).
		Str("winner", r.result.Winner.String()).
		Str("reason", string(r.result.Reason)).
		Int("plies", r.result.Plies).
		Msg("game-over")
	return r.result, nil
}

func (r *GameRunner) advance(m move.Move, next *game.State) {
	mover := r.state.PlayerOnTurn()
	r.key = r.zobrist.AddMove(r.key, r.state, next)
	r.seen[r.key]++
	r.state = next
	r.ply++

	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v\n",
			mover,
			r.gameID,
			r.ply,
			m.ShortDescription(),
			len(next.Captured()),
			next.Player(board.X).LivePieces,
			next.Player(board.O).LivePieces,
			next.Utility(board.X))
	}

	r.checkEnd()
}

func (r *GameRunner) checkEnd() {
	st := r.state
	res := &GameResult{
		ID:    r.gameID,
		Plies: r.ply,
		LivePieces: [2]int{
			st.Player(board.X).LivePieces,
			st.Player(board.O).LivePieces},
	}
	maxTurns := r.config.GetInt(config.ConfigMaxTurns)
	switch {
	case st.GameOver():
		res.Winner = st.Winner()
		res.Reason = EndWin
	case r.seen[r.key] >= RepetitionLimit:
		res.Winner = board.Empty
		res.Reason = EndRepetition
	case maxTurns > 0 && r.ply >= maxTurns:
		res.Winner = board.Empty
		res.Reason = EndMaxTurns
	default:
		return
	}
	r.result = res
}
