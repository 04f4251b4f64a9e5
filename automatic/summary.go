package automatic

import (
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/morris/board"
	"github.com/domino14/morris/stats"
)

const (
	// summaryCI is a percentage.
	summaryCI      = 95
	histogramBins  = 10
	histogramWidth = 40
)

// Summary collects the results of a batch of games. X is always player 1.
type Summary struct {
	Player1 string
	Player2 string
	Results []*GameResult
}

func (s *Summary) Add(r *GameResult) {
	s.Results = append(s.Results, r)
}

func (s *Summary) Games() int {
	return len(s.Results)
}

func (s *Summary) Wins(sym board.Symbol) int {
	return lo.CountBy(s.Results, func(r *GameResult) bool { return r.Winner == sym })
}

func (s *Summary) Draws() int {
	return s.Wins(board.Empty)
}

// Reasons counts games by how they ended.
func (s *Summary) Reasons() map[EndReason]int {
	return lo.CountValuesBy(s.Results, func(r *GameResult) EndReason { return r.Reason })
}

// Score returns player 1's score fraction, counting a draw as half a win,
// along with its confidence interval. ci is a percentage, e.g. 95.
func (s *Summary) Score(ci float64) (p, low, high float64) {
	n := s.Games()
	if n == 0 {
		return 0, 0, 1
	}
	pts := float64(s.Wins(board.X)) + 0.5*float64(s.Draws())
	low, high = stats.ProportionInterval(pts, n, ci)
	return pts / float64(n), low, high
}

func (s *Summary) plies() []float64 {
	return lo.Map(s.Results, func(r *GameResult, _ int) float64 { return float64(r.Plies) })
}

func (s *Summary) String() string {
	var sb strings.Builder
	n := s.Games()
	fmt.Fprintf(&sb, "Games played: %d\n", n)
	fmt.Fprintf(&sb, "%s (X) wins: %d\n", s.Player1, s.Wins(board.X))
	fmt.Fprintf(&sb, "%s (O) wins: %d\n", s.Player2, s.Wins(board.O))
	fmt.Fprintf(&sb, "Draws: %d\n", s.Draws())
	if n == 0 {
		return sb.String()
	}
	reasons := s.Reasons()
	for _, r := range []EndReason{EndWin, EndMaxTurns, EndRepetition} {
		if reasons[r] > 0 {
			fmt.Fprintf(&sb, "  ended by %s: %d\n", r, reasons[r])
		}
	}
	p, plo, phi := s.Score(summaryCI)
	fmt.Fprintf(&sb, "%s score: %.3f (%.0f%% CI %.3f - %.3f)\n",
		s.Player1, p, float64(summaryCI), plo, phi)

	plies := s.plies()
	mean, sd := stat.MeanStdDev(plies, nil)
	if n < 2 {
		sd = 0
	}
	fmt.Fprintf(&sb, "Game length: %.1f plies (stdev %.1f)\n", mean, sd)
	sb.WriteString("Game length histogram:\n")
	if lo.Min(plies) == lo.Max(plies) {
		fmt.Fprintf(&sb, "  all %d games took %.0f plies\n", n, plies[0])
		return sb.String()
	}
	if err := histogram.Fprint(&sb, histogram.Hist(histogramBins, plies), histogram.Linear(histogramWidth)); err != nil {
		fmt.Fprintf(&sb, "  (histogram unavailable: %v)\n", err)
	}
	return sb.String()
}
