package scoring

import (
	"hash/fnv"
	"math/rand"

	"github.com/yourusername/bioboost/internal/models"
)

// DemoFactorProvider generates plausible factor bundles for demo paths when
// no live biometrics are supplied. Bundles are seeded from the player
// identifier, never the clock, so repeated calls are reproducible and tests
// cannot accidentally depend on wall time. Kept apart from production
// scoring, which only ever consumes caller-supplied bundles.
type DemoFactorProvider struct{}

// NewDemoFactorProvider creates a demo factor provider
func NewDemoFactorProvider() *DemoFactorProvider {
	return &DemoFactorProvider{}
}

// Bundle returns a deterministic factor bundle for the named player
func (p *DemoFactorProvider) Bundle(playerID string) models.FactorBundle {
	h := fnv.New64a()
	h.Write([]byte(playerID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	statuses := []models.InjuryStatus{
		models.InjuryStatusHealthy,
		models.InjuryStatusHealthy,
		models.InjuryStatusHealthy,
		models.InjuryStatusQuestionable,
		models.InjuryStatusDoubtful,
	}
	status := statuses[rng.Intn(len(statuses))]

	recovery := 100.0
	if status != models.InjuryStatusHealthy {
		recovery = 40 + rng.Float64()*50
	}

	return models.FactorBundle{
		PlayerID:          playerID,
		SleepHours:        5.5 + rng.Float64()*3.5,
		TestosteroneProxy: 40 + rng.Float64()*55,
		CortisolProxy:     20 + rng.Float64()*60,
		HydrationPct:      75 + rng.Float64()*25,
		InjuryStatus:      status,
		InjuryRecoveryPct: recovery,
		WindSpeedMPH:      rng.Float64() * 25,
		TemperatureF:      35 + rng.Float64()*55,
		PrecipitationPct:  rng.Float64() * 70,
		RestDays:          3 + rng.Intn(5),
		TravelMiles:       rng.Float64() * 2500,
	}
}
