package models

import "github.com/shopspring/decimal"

// BetType represents the market a pick is priced against
type BetType string

const (
	BetTypeSpread     BetType = "spread"
	BetTypeMoneyline  BetType = "moneyline"
	BetTypeTotal      BetType = "total"
	BetTypePlayerProp BetType = "player_prop"
)

// Pick identifies a single market selection with its price and the
// caller's base win-probability estimate
type Pick struct {
	Player      string  `json:"player" validate:"required"`
	Team        string  `json:"team" validate:"required"`
	GameID      string  `json:"game_id" validate:"required"`
	BetType     BetType `json:"bet_type" validate:"required,oneof=spread moneyline total player_prop"`
	Odds        float64 `json:"odds" validate:"required,gt=1"`
	Probability float64 `json:"probability" validate:"required,gt=0,lt=1"`
}

// ExpectedValue returns odds * probability - 1; positive EV means the
// price is favorable relative to the estimated probability
func (p Pick) ExpectedValue() float64 {
	return p.Odds*p.Probability - 1
}

// RiskLevel is a qualitative label derived from the capped Kelly fraction
type RiskLevel string

const (
	RiskLevelHigh       RiskLevel = "high"
	RiskLevelMediumHigh RiskLevel = "medium-high"
	RiskLevelMedium     RiskLevel = "medium"
	RiskLevelLowMedium  RiskLevel = "low-medium"
	RiskLevelLow        RiskLevel = "low"
)

// StakeRecommendation is the full output of the Kelly stake calculation
// for a single pick
type StakeRecommendation struct {
	KellyFraction    float64         `json:"kelly_fraction"`
	AdjustedFraction float64         `json:"adjusted_fraction"`
	CappedFraction   float64         `json:"capped_fraction"`
	Stake            decimal.Decimal `json:"stake"`
	ExpectedValue    float64         `json:"expected_value"`
	RiskLevel        RiskLevel       `json:"risk_level"`
	Bettable         bool            `json:"bettable"`
	Reason           string          `json:"reason,omitempty"`
}
