// Package parlay inspects sets of picks for shared teams, games, and
// players and recommends straight bets versus multi-leg parlays.
// Parlaying correlated legs is discouraged because the legs are not
// independent, which inflates implied odds beyond true joint probability.
package parlay

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bioboost/internal/models"
)

// Correlation classifies how entangled a set of picks is
type Correlation string

const (
	CorrelationNone   Correlation = "none"
	CorrelationLow    Correlation = "low"
	CorrelationMedium Correlation = "medium"
	CorrelationHigh   Correlation = "high"
)

// Recommendation is the suggested bet structure for a set of picks
type Recommendation string

const (
	RecommendSingle    Recommendation = "single"
	RecommendStraights Recommendation = "straights"
	RecommendTwoLeg    Recommendation = "2-leg"
	RecommendThreeLeg  Recommendation = "3-leg"
)

// Result is the outcome of a correlation analysis
type Result struct {
	Correlation    Correlation    `json:"correlation"`
	Recommendation Recommendation `json:"recommendation"`
	Reason         string         `json:"reason"`
	AverageEV      float64        `json:"average_ev"`
	DistinctTeams  int            `json:"distinct_teams"`
	DistinctGames  int            `json:"distinct_games"`
	DistinctPlayer int            `json:"distinct_players"`
}

// Thresholds configures the minimum average expected value required before
// a parlay structure is recommended over straight bets
type Thresholds struct {
	TwoLegMinEV   float64 `mapstructure:"two_leg_min_ev" validate:"gte=0"`
	ThreeLegMinEV float64 `mapstructure:"three_leg_min_ev" validate:"gte=0"`
}

// DefaultThresholds returns the recommended EV gates
func DefaultThresholds() Thresholds {
	return Thresholds{TwoLegMinEV: 0.08, ThreeLegMinEV: 0.15}
}

// Analyzer classifies pick correlation and recommends bet structures
type Analyzer struct {
	thresholds Thresholds
	logger     *logrus.Logger
}

// NewAnalyzer creates a new correlation analyzer
func NewAnalyzer(thresholds Thresholds, logger *logrus.Logger) *Analyzer {
	return &Analyzer{thresholds: thresholds, logger: logger}
}

// Analyze classifies the correlation across the picks and recommends a bet
// structure. Fewer than two picks is trivially uncorrelated. Picks all on
// one team or in one game are highly correlated and should be bet straight.
// Three or more picks squeezed into two games are moderately correlated and
// at most a 2-leg structure. Otherwise correlation is low and a 3-leg
// parlay is eligible, but any parlay structure still has to clear its
// average-EV gate or the recommendation falls back to straights.
func (a *Analyzer) Analyze(picks []models.Pick) Result {
	if len(picks) < 2 {
		return Result{
			Correlation:    CorrelationNone,
			Recommendation: RecommendSingle,
			Reason:         "fewer than two picks, nothing to correlate",
			AverageEV:      averageEV(picks),
			DistinctTeams:  countDistinct(picks, func(p models.Pick) string { return p.Team }),
			DistinctGames:  countDistinct(picks, func(p models.Pick) string { return p.GameID }),
			DistinctPlayer: countDistinct(picks, func(p models.Pick) string { return p.Player }),
		}
	}

	teams := countDistinct(picks, func(p models.Pick) string { return p.Team })
	games := countDistinct(picks, func(p models.Pick) string { return p.GameID })
	players := countDistinct(picks, func(p models.Pick) string { return p.Player })
	avgEV := averageEV(picks)

	result := Result{
		AverageEV:      avgEV,
		DistinctTeams:  teams,
		DistinctGames:  games,
		DistinctPlayer: players,
	}

	switch {
	case teams == 1:
		result.Correlation = CorrelationHigh
		result.Recommendation = RecommendStraights
		result.Reason = "all picks on one team, legs are not independent"
	case games == 1:
		result.Correlation = CorrelationHigh
		result.Recommendation = RecommendStraights
		result.Reason = "all picks in one game, legs are not independent"
	case len(picks) >= 3 && games <= 2:
		result.Correlation = CorrelationMedium
		if avgEV >= a.thresholds.TwoLegMinEV {
			result.Recommendation = RecommendTwoLeg
			result.Reason = fmt.Sprintf("picks concentrated in %d games, 2-leg structure at most", games)
		} else {
			result.Recommendation = RecommendStraights
			result.Reason = fmt.Sprintf("average EV %.2f below 2-leg threshold %.2f", avgEV, a.thresholds.TwoLegMinEV)
		}
	default:
		result.Correlation = CorrelationLow
		switch {
		case len(picks) >= 3 && avgEV >= a.thresholds.ThreeLegMinEV:
			result.Recommendation = RecommendThreeLeg
			result.Reason = fmt.Sprintf("independent games with average EV %.2f", avgEV)
		case avgEV >= a.thresholds.TwoLegMinEV:
			result.Recommendation = RecommendTwoLeg
			result.Reason = fmt.Sprintf("independent games, average EV %.2f supports a 2-leg structure", avgEV)
		default:
			result.Recommendation = RecommendStraights
			result.Reason = fmt.Sprintf("average EV %.2f too thin for a parlay", avgEV)
		}
	}

	a.logger.WithFields(logrus.Fields{
		"picks":          len(picks),
		"distinct_teams": teams,
		"distinct_games": games,
		"average_ev":     avgEV,
		"correlation":    result.Correlation,
		"recommendation": result.Recommendation,
	}).Debug("Pick correlation analyzed")

	return result
}

// countDistinct counts distinct non-empty values of the keyed field
func countDistinct(picks []models.Pick, key func(models.Pick) string) int {
	seen := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		if k := key(p); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// averageEV returns the mean expected value across the picks
func averageEV(picks []models.Pick) float64 {
	if len(picks) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range picks {
		total += p.ExpectedValue()
	}
	return total / float64(len(picks))
}
