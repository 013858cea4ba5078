package scoring

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bioboost/internal/models"
)

// Weights configures the contribution of each factor to the composite
// score. The sum must not exceed 1.
type Weights struct {
	Sleep          float64 `mapstructure:"sleep" validate:"gte=0,lte=1"`
	Testosterone   float64 `mapstructure:"testosterone" validate:"gte=0,lte=1"`
	Cortisol       float64 `mapstructure:"cortisol" validate:"gte=0,lte=1"`
	Hydration      float64 `mapstructure:"hydration" validate:"gte=0,lte=1"`
	InjuryRecovery float64 `mapstructure:"injury_recovery" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the recommended factor weighting
func DefaultWeights() Weights {
	return Weights{
		Sleep:          0.30,
		Testosterone:   0.40,
		Cortisol:       0.15,
		Hydration:      0.10,
		InjuryRecovery: 0.05,
	}
}

// Sum returns the total weight across all factors
func (w Weights) Sum() float64 {
	return w.Sleep + w.Testosterone + w.Cortisol + w.Hydration + w.InjuryRecovery
}

// Scorer computes BioBoost composite scores from factor bundles
type Scorer struct {
	weights Weights
	logger  *logrus.Logger
}

// NewScorer creates a new scorer with the given weights
func NewScorer(weights Weights, logger *logrus.Logger) *Scorer {
	return &Scorer{weights: weights, logger: logger}
}

// Score combines the normalized factors into one weighted composite on a
// 0-100 scale. Starts from a baseline of 50, adds each factor's weighted
// deviation from the 50 midpoint, clamps to [0,100] and rounds to the
// nearest integer. Pure: identical bundles always yield identical scores.
func (s *Scorer) Score(factors models.FactorBundle) models.BioBoostScore {
	sleep := NormalizeSleep(factors.SleepHours)
	testosterone := NormalizeTestosterone(factors.TestosteroneProxy)
	cortisol := NormalizeCortisol(factors.CortisolProxy)
	hydration := NormalizeHydration(factors.HydrationPct)
	injury := NormalizeInjuryRecovery(factors.InjuryStatus, factors.InjuryRecoveryPct)

	composite := 50.0 +
		s.weights.Sleep*(sleep-50) +
		s.weights.Testosterone*(testosterone-50) +
		s.weights.Cortisol*(cortisol-50) +
		s.weights.Hydration*(hydration-50) +
		s.weights.InjuryRecovery*(injury-50)

	score := models.BioBoostScore(math.Round(clamp(composite, 0, 100)))

	s.logger.WithFields(logrus.Fields{
		"player_id":    factors.PlayerID,
		"sleep":        sleep,
		"testosterone": testosterone,
		"cortisol":     cortisol,
		"hydration":    hydration,
		"injury":       injury,
		"score":        score,
	}).Debug("BioBoost score calculated")

	return score
}
