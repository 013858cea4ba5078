package staking

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bioboost/internal/metrics"
	"github.com/yourusername/bioboost/internal/models"
)

// Params configures Kelly stake sizing
type Params struct {
	Bankroll      decimal.Decimal
	RiskTolerance float64 // fraction of full Kelly, (0,1]
	KellyCap      float64 // hard ceiling on the bankroll fraction, (0,1]
	MinStake      decimal.Decimal
	MaxStake      decimal.Decimal
	// ForceMinimum floors a zero-Kelly stake to MinStake instead of
	// suppressing the recommendation
	ForceMinimum bool
}

// Calculator sizes stakes via the fractional Kelly criterion
type Calculator struct {
	logger *logrus.Logger
}

// NewCalculator creates a new Kelly stake calculator
func NewCalculator(logger *logrus.Logger) *Calculator {
	return &Calculator{logger: logger}
}

// KellyFraction returns the raw Kelly bankroll fraction for a price and win
// probability: f = (b*p - q) / b with b = odds - 1, floored at 0. Returns
// exactly 0 when odds <= 1 or the probability sits at or past the (0,1)
// boundaries.
func KellyFraction(odds, probability float64) float64 {
	if odds <= 1 || probability <= 0 || probability >= 1 {
		return 0
	}

	b := odds - 1.0
	p := probability
	q := 1.0 - p

	kelly := (b*p - q) / b
	if kelly < 0 {
		return 0
	}
	return kelly
}

// Stake turns a pick's odds and adjusted probability into a sized
// recommendation: fractional Kelly scaled by risk tolerance, hard-capped,
// applied to the bankroll, then clamped to the min/max stake and rounded to
// the smallest currency unit
func (c *Calculator) Stake(odds, probability float64, params Params) models.StakeRecommendation {
	metrics.StakeCalculationsTotal.Inc()

	kelly := KellyFraction(odds, probability)
	ev := odds*probability - 1

	rec := models.StakeRecommendation{
		KellyFraction: kelly,
		ExpectedValue: ev,
		Stake:         decimal.Zero,
		RiskLevel:     models.RiskLevelLow,
	}

	if kelly == 0 {
		if !params.ForceMinimum {
			rec.Reason = "no positive edge at this price"
			c.logger.WithFields(logrus.Fields{
				"odds":        odds,
				"probability": probability,
			}).Debug("Zero Kelly fraction, recommendation suppressed")
			return rec
		}
		rec.Bettable = true
		rec.Stake = params.MinStake
		rec.Reason = "no edge, floored to minimum stake on request"
		return rec
	}

	adjusted := kelly * params.RiskTolerance
	capped := adjusted
	if capped > params.KellyCap {
		capped = params.KellyCap
	}

	rawStake := params.Bankroll.Mul(decimal.NewFromFloat(capped))
	stake := rawStake
	if !params.MinStake.IsZero() && stake.LessThan(params.MinStake) {
		stake = params.MinStake
	}
	if !params.MaxStake.IsZero() && stake.GreaterThan(params.MaxStake) {
		stake = params.MaxStake
	}
	stake = stake.Round(2)

	rec.AdjustedFraction = adjusted
	rec.CappedFraction = capped
	rec.Stake = stake
	rec.RiskLevel = riskLevel(capped)
	rec.Bettable = true

	c.logger.WithFields(logrus.Fields{
		"odds":              odds,
		"probability":       probability,
		"kelly_fraction":    kelly,
		"adjusted_fraction": adjusted,
		"capped_fraction":   capped,
		"stake":             stake.String(),
		"expected_value":    ev,
		"risk_level":        rec.RiskLevel,
	}).Debug("Stake calculated")

	return rec
}

// StakeForPick is a convenience wrapper taking the pick's own price and
// probability
func (c *Calculator) StakeForPick(pick models.Pick, params Params) models.StakeRecommendation {
	return c.Stake(pick.Odds, pick.Probability, params)
}

// riskLevel derives the qualitative label from the capped fraction
func riskLevel(capped float64) models.RiskLevel {
	switch {
	case capped >= 0.05:
		return models.RiskLevelHigh
	case capped >= 0.03:
		return models.RiskLevelMediumHigh
	case capped >= 0.02:
		return models.RiskLevelMedium
	case capped >= 0.01:
		return models.RiskLevelLowMedium
	default:
		return models.RiskLevelLow
	}
}
