// Package staking implements win-probability enhancement and Kelly
// criterion stake sizing. All functions are pure; degenerate numeric
// inputs are clamped rather than rejected so a bad price never aborts a
// recommendation pipeline.
package staking

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bioboost/internal/models"
)

const (
	// Probability bounds keep Kelly inputs away from degenerate values
	probabilityFloor = 0.01
	probabilityCeil  = 0.99

	// A perfect 100 score contributes +0.10, a 0 score -0.10
	scoreDeltaDivisor = 500.0

	// Aggregate adjustment is bounded regardless of how deltas stack
	maxAdjustment = 0.20
)

// injuryAdjustments maps listed injury designations to probability deltas
var injuryAdjustments = map[models.InjuryStatus]float64{
	models.InjuryStatusHealthy:      +0.02,
	models.InjuryStatusQuestionable: -0.05,
	models.InjuryStatusDoubtful:     -0.15,
}

// Enhancer nudges market-implied win probabilities using the BioBoost
// composite score and injury context
type Enhancer struct {
	logger *logrus.Logger
}

// NewEnhancer creates a new probability enhancer
func NewEnhancer(logger *logrus.Logger) *Enhancer {
	return &Enhancer{logger: logger}
}

// Enhance applies a bounded score-and-injury adjustment to the base
// probability. An "out" designation forces the probability to the floor,
// meaning do not recommend. The result always lands in (0.01, 0.99).
func (e *Enhancer) Enhance(baseProbability float64, score models.BioBoostScore, injury models.InjuryStatus) float64 {
	base := clamp(baseProbability, probabilityFloor, probabilityCeil)

	if injury == models.InjuryStatusOut {
		e.logger.WithFields(logrus.Fields{
			"base_probability": base,
			"injury_status":    injury,
		}).Debug("Player listed out, probability forced to floor")
		return probabilityFloor
	}

	delta := (float64(score) - 50.0) / scoreDeltaDivisor
	if adj, ok := injuryAdjustments[injury]; ok {
		delta += adj
	}
	delta = clamp(delta, -maxAdjustment, maxAdjustment)

	enhanced := clamp(base+delta, probabilityFloor, probabilityCeil)

	e.logger.WithFields(logrus.Fields{
		"base_probability":     base,
		"bioboost_score":       score,
		"injury_status":        injury,
		"adjustment":           delta,
		"enhanced_probability": enhanced,
	}).Debug("Probability enhanced")

	return enhanced
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
