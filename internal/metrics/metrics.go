// Package metrics provides the centralized Prometheus metrics registry for
// the bankroll engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecommendationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bioboost",
		Name:      "bet_recommendations_total",
		Help:      "Total number of bet recommendations logged",
	})
	SettlementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bioboost",
		Name:      "bet_settlements_total",
		Help:      "Total number of bet settlements by result",
	}, []string{"result"})
	StakeCalculationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bioboost",
		Name:      "stake_calculations_total",
		Help:      "Total number of Kelly stake calculations",
	})
	PersistenceConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bioboost",
		Name:      "persistence_conflicts_total",
		Help:      "Total number of ledger writes rejected by version conflict",
	})
	PersistenceFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bioboost",
		Name:      "persistence_failures_total",
		Help:      "Total number of failed durable ledger writes",
	})
	ReconciliationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bioboost",
		Name:      "reconciliation_failures_total",
		Help:      "Total number of reconciliation runs that found balance drift",
	})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bioboost",
		Name:      "current_bankroll",
		Help:      "Current bankroll in currency units",
	})
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bioboost",
		Name:      "pending_bets",
		Help:      "Number of unsettled bet recommendations",
	})
	WinRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bioboost",
		Name:      "win_rate",
		Help:      "Fraction of settled bets that won",
	})
	LedgerEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bioboost",
		Name:      "ledger_entries",
		Help:      "Number of retained ledger journal entries",
	})
)

// Histogram metrics
var (
	PersistLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bioboost",
		Name:      "ledger_persist_latency_seconds",
		Help:      "Latency of durable ledger writes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(SettlementsTotal)
		registry.MustRegister(StakeCalculationsTotal)
		registry.MustRegister(PersistenceConflictsTotal)
		registry.MustRegister(PersistenceFailuresTotal)
		registry.MustRegister(ReconciliationFailuresTotal)

		// Register gauge metrics
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(PendingBets)
		registry.MustRegister(WinRate)
		registry.MustRegister(LedgerEntries)

		// Register histogram metrics
		registry.MustRegister(PersistLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRecommendation records a logged bet recommendation.
func RecordRecommendation() {
	RecommendationsTotal.Inc()
}

// RecordSettlement records a settlement event by result.
func RecordSettlement(result string) {
	SettlementsTotal.WithLabelValues(result).Inc()
}

// UpdateLedgerGauges refreshes the materialized ledger gauges.
func UpdateLedgerGauges(bankroll float64, pending int, winRate float64, entries int) {
	CurrentBankroll.Set(bankroll)
	PendingBets.Set(float64(pending))
	WinRate.Set(winRate)
	LedgerEntries.Set(float64(entries))
}
