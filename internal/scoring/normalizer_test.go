package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/bioboost/internal/models"
)

func TestNormalizeSleep(t *testing.T) {
	tests := []struct {
		name     string
		hours    float64
		expected float64
	}{
		{"optimal eight hours", 8, 100},
		{"more than optimal clamps", 10, 100},
		{"minimum four hours", 4, 0},
		{"below minimum clamps", 2, 0},
		{"six hours is midpoint", 6, 50},
		{"seven hours", 7, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeSleep(tt.hours), 1e-9)
		})
	}
}

func TestNormalizeCortisolInverts(t *testing.T) {
	assert.InDelta(t, 100, NormalizeCortisol(0), 1e-9)
	assert.InDelta(t, 0, NormalizeCortisol(100), 1e-9)
	assert.InDelta(t, 70, NormalizeCortisol(30), 1e-9)
	assert.InDelta(t, 0, NormalizeCortisol(150), 1e-9)
}

func TestNormalizeInjuryRecovery(t *testing.T) {
	tests := []struct {
		name     string
		status   models.InjuryStatus
		recovery float64
		expected float64
	}{
		{"out always zero", models.InjuryStatusOut, 100, 0},
		{"doubtful quartered", models.InjuryStatusDoubtful, 80, 20},
		{"questionable reduced", models.InjuryStatusQuestionable, 50, 30},
		{"healthy tracked recovery", models.InjuryStatusHealthy, 90, 90},
		{"healthy untracked recovery", models.InjuryStatusHealthy, 0, 100},
		{"recovery clamped before scaling", models.InjuryStatusDoubtful, 200, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeInjuryRecovery(tt.status, tt.recovery), 1e-9)
		})
	}
}

func TestNormalizeWeatherFactors(t *testing.T) {
	assert.InDelta(t, 100, NormalizeWind(0), 1e-9)
	assert.InDelta(t, 0, NormalizeWind(30), 1e-9)
	assert.InDelta(t, 50, NormalizeWind(15), 1e-9)

	assert.InDelta(t, 100, NormalizeTemperature(65), 1e-9)
	assert.InDelta(t, 50, NormalizeTemperature(85), 1e-9)
	assert.InDelta(t, 50, NormalizeTemperature(45), 1e-9)
	assert.InDelta(t, 0, NormalizeTemperature(110), 1e-9)

	assert.InDelta(t, 100, NormalizePrecipitation(0), 1e-9)
	assert.InDelta(t, 25, NormalizePrecipitation(75), 1e-9)
}

func TestNormalizeRestAndTravel(t *testing.T) {
	assert.InDelta(t, 100, NormalizeRest(7), 1e-9)
	assert.InDelta(t, 100, NormalizeRest(10), 1e-9)
	assert.InDelta(t, 0, NormalizeRest(0), 1e-9)

	assert.InDelta(t, 100, NormalizeTravel(0), 1e-9)
	assert.InDelta(t, 50, NormalizeTravel(1500), 1e-9)
	assert.InDelta(t, 0, NormalizeTravel(5000), 1e-9)
}

func TestNormalizedRangesAlwaysBounded(t *testing.T) {
	inputs := []float64{-1000, -1, 0, 0.5, 50, 99.9, 100, 1000}
	for _, in := range inputs {
		for _, v := range []float64{
			NormalizeSleep(in),
			NormalizeTestosterone(in),
			NormalizeCortisol(in),
			NormalizeHydration(in),
			NormalizeWind(in),
			NormalizeTemperature(in),
			NormalizePrecipitation(in),
			NormalizeTravel(in),
		} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}
