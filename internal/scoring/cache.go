package scoring

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/bioboost/internal/models"
)

// ScoreCache memoizes computed BioBoost scores per factor bundle. Scoring is
// pure, so a cached value never goes stale relative to its inputs; the TTL
// only bounds memory growth for one-off bundles.
type ScoreCache struct {
	cache     *cache.Cache
	scorer    *Scorer
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewScoreCache creates a caching wrapper around a scorer
func NewScoreCache(scorer *Scorer, ttl time.Duration) *ScoreCache {
	return &ScoreCache{
		cache:  cache.New(ttl, ttl*2),
		scorer: scorer,
	}
}

// bundleKey builds a deterministic cache key from the full bundle contents
func bundleKey(f models.FactorBundle) string {
	return fmt.Sprintf("%s:%.2f:%.2f:%.2f:%.2f:%s:%.2f:%.2f:%.2f:%.2f:%d:%.1f",
		f.PlayerID, f.SleepHours, f.TestosteroneProxy, f.CortisolProxy,
		f.HydrationPct, f.InjuryStatus, f.InjuryRecoveryPct,
		f.WindSpeedMPH, f.TemperatureF, f.PrecipitationPct,
		f.RestDays, f.TravelMiles,
	)
}

// Score returns the memoized composite score for the bundle, computing and
// caching it on a miss
func (sc *ScoreCache) Score(factors models.FactorBundle) models.BioBoostScore {
	key := bundleKey(factors)

	sc.mu.RLock()
	cached, found := sc.cache.Get(key)
	sc.mu.RUnlock()

	if found {
		sc.mu.Lock()
		sc.hitCount++
		sc.mu.Unlock()
		if score, ok := cached.(models.BioBoostScore); ok {
			return score
		}
	}

	score := sc.scorer.Score(factors)

	sc.mu.Lock()
	sc.missCount++
	sc.cache.Set(key, score, cache.DefaultExpiration)
	sc.mu.Unlock()

	return score
}

// Stats returns hit and miss counts for monitoring
func (sc *ScoreCache) Stats() (hits, misses uint64) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.hitCount, sc.missCount
}
