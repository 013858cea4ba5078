package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	assert.Same(t, first, second)
}

func TestRecordRecommendation(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordRecommendation()
	})
}

func TestRecordSettlement(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSettlement("win")
		RecordSettlement("loss")
	})
}

func TestUpdateLedgerGauges(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		bankroll float64
		pending  int
		winRate  float64
		entries  int
	}{
		{"healthy ledger", 10000, 2, 0.6, 150},
		{"drawn down ledger", 120.50, 0, 0.25, 999},
		{"fresh ledger", 1000, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateLedgerGauges(tt.bankroll, tt.pending, tt.winRate, tt.entries)
			})
		})
	}
}

func TestGaugeValuesExported(t *testing.T) {
	InitRegistry()
	UpdateLedgerGauges(1050, 3, 0.5, 42)

	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	found := map[string]float64{}
	for _, fam := range families {
		switch fam.GetName() {
		case "bioboost_current_bankroll", "bioboost_pending_bets", "bioboost_ledger_entries":
			found[fam.GetName()] = fam.GetMetric()[0].GetGauge().GetValue()
		}
	}

	assert.Equal(t, 1050.0, found["bioboost_current_bankroll"])
	assert.Equal(t, 3.0, found["bioboost_pending_bets"])
	assert.Equal(t, 42.0, found["bioboost_ledger_entries"])
}

func TestHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}
