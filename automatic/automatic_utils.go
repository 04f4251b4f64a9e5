package automatic

// Data collection for automatic games. Computer vs computer, etc.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/morris/ai/player"
	"github.com/domino14/morris/config"
)

var (
	CVCCounter *expvar.Int
	// IsPlaying counts the workers busy with a batch.
	IsPlaying *expvar.Int
)

// batchRunning allows a single CompVsComp batch per process.
var batchRunning atomic.Bool

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

const logHeader = "playerID,gameID,ply,move,captures,xlive,olive,utility\n"

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

type Job struct{}

// CompVsComp plays numGames games between two computer strategies over
// threads workers and returns a summary of the results. If logWriter is
// not nil every ply is written to it as a CSV line. Cancelling ctx stops
// queueing new games; the summary covers the games that finished.
func CompVsComp(ctx context.Context, cfg *config.Config, player1, player2 string,
	numGames, threads int, logWriter io.Writer) (*Summary, error) {

	for _, k := range []string{player1, player2} {
		if player.Kind(strings.ToLower(strings.TrimSpace(k))) == player.KindHuman {
			return nil, errors.New("autoplay needs two computer players")
		}
	}
	if threads < 1 {
		threads = 1
	}
	if !batchRunning.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer batchRunning.Store(false)

	runners := make([]*GameRunner, threads)
	for i := range runners {
		runners[i] = NewGameRunner(nil, cfg)
		if err := runners[i].Init(player1, player2, player.Options{Config: cfg}); err != nil {
			return nil, err
		}
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	CVCCounter.Set(0)
	jobs := make(chan Job, 100)
	var logChan chan string
	var logWG sync.WaitGroup
	var logErr error
	if logWriter != nil {
		logChan = make(chan string, 100)
		logWG.Add(1)
		go func() {
			defer logWG.Done()
			write := func(line string) {
				if logErr != nil {
					return
				}
				if _, logErr = io.WriteString(logWriter, line); logErr != nil {
					log.Err(logErr).Msg("write-game-log")
				}
			}
			write(logHeader)
			// keep draining after a failed write so the workers never block
			for msg := range logChan {
				write(msg)
			}
			log.Debug().Msg("Exiting turn logger goroutine!")
		}()
	}

	var mu sync.Mutex
	summary := &Summary{Player1: player1, Player2: player2}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		r.logchan = logChan
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				res, err := r.PlayGame(gctx)
				if err != nil {
					if gctx.Err() != nil {
						continue
					}
					return err
				}
				mu.Lock()
				summary.Add(res)
				mu.Unlock()
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for i := 1; i <= numGames; i++ {
			select {
			case jobs <- Job{}:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
			if i%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i)
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
		return nil
	})

	err := g.Wait()
	if logChan != nil {
		close(logChan)
		logWG.Wait()
	}
	if err != nil {
		return summary, err
	}
	if logErr != nil {
		return summary, fmt.Errorf("writing game log: %w", logErr)
	}
	log.Info().Int("games", summary.Games()).Msg("All games finished.")
	return summary, nil
}
