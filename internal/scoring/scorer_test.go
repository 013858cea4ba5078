package scoring

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bioboost/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), testLogger())

	perfect := models.FactorBundle{
		PlayerID:          "qb-1",
		SleepHours:        8,
		TestosteroneProxy: 100,
		CortisolProxy:     0,
		HydrationPct:      100,
		InjuryStatus:      models.InjuryStatusHealthy,
		InjuryRecoveryPct: 100,
	}
	assert.Equal(t, models.BioBoostScore(100), scorer.Score(perfect))

	worst := models.FactorBundle{
		PlayerID:          "qb-2",
		SleepHours:        4,
		TestosteroneProxy: 0,
		CortisolProxy:     100,
		HydrationPct:      0,
		InjuryStatus:      models.InjuryStatusOut,
	}
	assert.Equal(t, models.BioBoostScore(0), scorer.Score(worst))
}

func TestScoreNeutralBundle(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), testLogger())

	neutral := models.FactorBundle{
		PlayerID:          "rb-1",
		SleepHours:        6,
		TestosteroneProxy: 50,
		CortisolProxy:     50,
		HydrationPct:      50,
		InjuryStatus:      models.InjuryStatusHealthy,
		InjuryRecoveryPct: 50,
	}
	assert.Equal(t, models.BioBoostScore(50), scorer.Score(neutral))
}

func TestScoreWeightedMix(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), testLogger())

	// sleep 7h -> 75, testosterone 80, cortisol 30 -> 70, hydration 90,
	// healthy with untracked recovery -> 100
	bundle := models.FactorBundle{
		PlayerID:          "wr-1",
		SleepHours:        7,
		TestosteroneProxy: 80,
		CortisolProxy:     30,
		HydrationPct:      90,
		InjuryStatus:      models.InjuryStatusHealthy,
	}
	// 50 + .30*25 + .40*30 + .15*20 + .10*40 + .05*50 = 79
	assert.Equal(t, models.BioBoostScore(79), scorer.Score(bundle))
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), testLogger())

	bundle := models.FactorBundle{
		PlayerID:          "te-1",
		SleepHours:        6.4,
		TestosteroneProxy: 61.2,
		CortisolProxy:     44.7,
		HydrationPct:      88,
		InjuryStatus:      models.InjuryStatusQuestionable,
		InjuryRecoveryPct: 72,
	}

	first := scorer.Score(bundle)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, scorer.Score(bundle))
	}
}

func TestWeightsSum(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-9)
}

func TestScoreCacheMemoizes(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), testLogger())
	sc := NewScoreCache(scorer, time.Minute)

	bundle := models.FactorBundle{
		PlayerID:          "qb-1",
		SleepHours:        7.5,
		TestosteroneProxy: 70,
		CortisolProxy:     35,
		HydrationPct:      92,
		InjuryStatus:      models.InjuryStatusHealthy,
	}

	first := sc.Score(bundle)
	second := sc.Score(bundle)
	assert.Equal(t, first, second)

	hits, misses := sc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	// Changing any field is a different key
	bundle.CortisolProxy = 36
	sc.Score(bundle)
	_, misses = sc.Stats()
	assert.Equal(t, uint64(2), misses)
}

func TestDemoFactorProviderDeterministic(t *testing.T) {
	provider := NewDemoFactorProvider()

	first := provider.Bundle("patrick-mahomes")
	second := provider.Bundle("patrick-mahomes")
	require.Equal(t, first, second)

	other := provider.Bundle("josh-allen")
	assert.NotEqual(t, first, other)
}

func TestDemoFactorProviderPlausibleRanges(t *testing.T) {
	provider := NewDemoFactorProvider()
	scorer := NewScorer(DefaultWeights(), testLogger())

	players := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	for _, p := range players {
		bundle := provider.Bundle(p)
		assert.Equal(t, p, bundle.PlayerID)
		assert.GreaterOrEqual(t, bundle.SleepHours, 5.5)
		assert.LessOrEqual(t, bundle.SleepHours, 9.0)
		assert.True(t, bundle.InjuryStatus.IsValid())

		score := scorer.Score(bundle)
		assert.GreaterOrEqual(t, int(score), 0)
		assert.LessOrEqual(t, int(score), 100)
	}
}
