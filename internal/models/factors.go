package models

// InjuryStatus represents a player's listed injury designation
type InjuryStatus string

const (
	InjuryStatusHealthy      InjuryStatus = "healthy"
	InjuryStatusQuestionable InjuryStatus = "questionable"
	InjuryStatusDoubtful     InjuryStatus = "doubtful"
	InjuryStatusOut          InjuryStatus = "out"
)

// IsValid checks whether the status is one of the recognized designations
func (s InjuryStatus) IsValid() bool {
	switch s {
	case InjuryStatusHealthy, InjuryStatusQuestionable, InjuryStatusDoubtful, InjuryStatusOut:
		return true
	}
	return false
}

// FactorBundle is an immutable snapshot of the raw biometric and contextual
// inputs for one player evaluation. Values are in their native units; the
// scoring package normalizes each onto a common 0-100 scale.
type FactorBundle struct {
	PlayerID          string       `json:"player_id" validate:"required"`
	SleepHours        float64      `json:"sleep_hours"`
	TestosteroneProxy float64      `json:"testosterone_proxy"` // 0-100 performance-readiness proxy
	CortisolProxy     float64      `json:"cortisol_proxy"`     // 0-100 stress proxy, lower is better
	HydrationPct      float64      `json:"hydration_pct"`
	InjuryStatus      InjuryStatus `json:"injury_status"`
	InjuryRecoveryPct float64      `json:"injury_recovery_pct"`
	WindSpeedMPH      float64      `json:"wind_speed_mph"`
	TemperatureF      float64      `json:"temperature_f"`
	PrecipitationPct  float64      `json:"precipitation_pct"`
	RestDays          int          `json:"rest_days"`
	TravelMiles       float64      `json:"travel_miles"`
}

// BioBoostScore is the 0-100 weighted composite performance indicator
type BioBoostScore int
