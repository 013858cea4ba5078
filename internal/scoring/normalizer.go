// Package scoring implements factor normalization and the BioBoost
// composite score. All production scoring paths are pure and deterministic.
package scoring

import "github.com/yourusername/bioboost/internal/models"

// Normalization anchor points for raw factor units
const (
	sleepOptimalHours  = 8.0
	sleepMinimumHours  = 4.0
	hydrationOptimal   = 100.0
	windCalmMPH        = 0.0
	windSevereMPH      = 30.0
	tempOptimalF       = 65.0
	tempRangeF         = 40.0
	restOptimalDays    = 7
	travelNeutralMiles = 0.0
	travelHeavyMiles   = 3000.0
)

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

// NormalizeSleep maps hours slept onto 0-100. Four hours or less scores 0,
// eight or more scores 100, linear between.
func NormalizeSleep(hours float64) float64 {
	return clamp((hours-sleepMinimumHours)/(sleepOptimalHours-sleepMinimumHours)*100, 0, 100)
}

// NormalizeTestosterone passes through the 0-100 readiness proxy, clamped
func NormalizeTestosterone(proxy float64) float64 {
	return clamp(proxy, 0, 100)
}

// NormalizeCortisol inverts the 0-100 stress proxy; lower stress is better
func NormalizeCortisol(proxy float64) float64 {
	return clamp(100-proxy, 0, 100)
}

// NormalizeHydration maps hydration percentage onto 0-100
func NormalizeHydration(pct float64) float64 {
	return clamp(pct/hydrationOptimal*100, 0, 100)
}

// NormalizeInjuryRecovery combines the listed injury status with the
// recovery percentage. An "out" designation always scores 0.
func NormalizeInjuryRecovery(status models.InjuryStatus, recoveryPct float64) float64 {
	switch status {
	case models.InjuryStatusOut:
		return 0
	case models.InjuryStatusDoubtful:
		return clamp(recoveryPct, 0, 100) * 0.25
	case models.InjuryStatusQuestionable:
		return clamp(recoveryPct, 0, 100) * 0.60
	default:
		if recoveryPct <= 0 {
			return 100 // healthy with no tracked recovery
		}
		return clamp(recoveryPct, 0, 100)
	}
}

// NormalizeWind maps wind speed onto 0-100, calm is best
func NormalizeWind(mph float64) float64 {
	return clamp(100-(mph-windCalmMPH)/(windSevereMPH-windCalmMPH)*100, 0, 100)
}

// NormalizeTemperature maps game temperature onto 0-100 by distance from
// the 65F optimum
func NormalizeTemperature(degF float64) float64 {
	dist := degF - tempOptimalF
	if dist < 0 {
		dist = -dist
	}
	return clamp(100-dist/tempRangeF*100, 0, 100)
}

// NormalizePrecipitation maps precipitation chance onto 0-100, dry is best
func NormalizePrecipitation(pct float64) float64 {
	return clamp(100-pct, 0, 100)
}

// NormalizeRest maps days of rest onto 0-100, a full week scores 100
func NormalizeRest(days int) float64 {
	return clamp(float64(days)/float64(restOptimalDays)*100, 0, 100)
}

// NormalizeTravel maps miles traveled onto 0-100, no travel is best
func NormalizeTravel(miles float64) float64 {
	return clamp(100-(miles-travelNeutralMiles)/(travelHeavyMiles-travelNeutralMiles)*100, 0, 100)
}
