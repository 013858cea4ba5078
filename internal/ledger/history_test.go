package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bioboost/internal/models"
)

// seedHistory builds a small journal: two settled wins for script A, one
// settled loss for script B, and one still-pending bet for script A.
func seedHistory(t *testing.T) *Service {
	t.Helper()
	svc, _ := initializedService(t, 1000)
	ctx := context.Background()

	place := func(slip, script, stack string, stake int64) {
		_, err := svc.LogBetRecommendation(ctx, BetData{
			Slip:             slip,
			Script:           script,
			Stack:            stack,
			Odds:             1.9,
			RecommendedStake: decimal.NewFromInt(stake),
		})
		require.NoError(t, err)
	}

	place("slip-1", "script-a", "sunday-main", 50)
	_, err := svc.UpdateBetResult(ctx, "slip-1", models.BetResultWin, nil)
	require.NoError(t, err)

	place("slip-2", "script-a", "sunday-main", 30)
	_, err = svc.UpdateBetResult(ctx, "slip-2", models.BetResultWin, nil)
	require.NoError(t, err)

	place("slip-3", "script-b", "thursday-night", 40)
	_, err = svc.UpdateBetResult(ctx, "slip-3", models.BetResultLoss, nil)
	require.NoError(t, err)

	place("slip-4", "script-a", "sunday-main", 25)
	return svc
}

func TestQueryHistoryUnfiltered(t *testing.T) {
	svc := seedHistory(t)

	result, err := svc.QueryHistory(context.Background(), HistoryFilter{})
	require.NoError(t, err)

	// init + 4 recommendations + 3 settlements
	assert.Equal(t, 8, result.Summary.Count)
	assert.Equal(t, 2, result.Summary.Wins)
	assert.Equal(t, 1, result.Summary.Losses)
	assert.Equal(t, 1, result.Summary.Pending)
	assert.Equal(t, "40.00", result.Summary.TotalProfit.StringFixed(2))
	assert.InDelta(t, 2.0/3.0, result.Summary.WinRate, 1e-9)
}

func TestQueryHistoryByScript(t *testing.T) {
	svc := seedHistory(t)

	result, err := svc.QueryHistory(context.Background(), HistoryFilter{Script: "script-a"})
	require.NoError(t, err)

	// 3 recommendations + 2 settlements
	assert.Equal(t, 5, result.Summary.Count)
	assert.Equal(t, 2, result.Summary.Wins)
	assert.Equal(t, 0, result.Summary.Losses)
	assert.Equal(t, 1, result.Summary.Pending)
	assert.Equal(t, "80.00", result.Summary.TotalProfit.StringFixed(2))
	for _, e := range result.Entries {
		assert.Equal(t, "script-a", e.Script)
	}
}

func TestQueryHistoryByStackAndResult(t *testing.T) {
	svc := seedHistory(t)

	result, err := svc.QueryHistory(context.Background(), HistoryFilter{
		Stack:  "thursday-night",
		Type:   models.EntryTypeBetSettlement,
		Result: models.BetStatusLoss,
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Summary.Count)
	assert.Equal(t, "slip-3", result.Entries[0].Slip)
	assert.Equal(t, "-40.00", result.Summary.TotalProfit.StringFixed(2))
}

func TestQueryHistoryLimitKeepsMostRecent(t *testing.T) {
	svc := seedHistory(t)

	result, err := svc.QueryHistory(context.Background(), HistoryFilter{Limit: 2})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	// Journal order: the trailing entries are the slip-3 settlement and the
	// pending slip-4 recommendation
	assert.Equal(t, "slip-3", result.Entries[0].Slip)
	assert.Equal(t, "slip-4", result.Entries[1].Slip)
}

func TestQueryHistoryNoMatches(t *testing.T) {
	svc := seedHistory(t)

	result, err := svc.QueryHistory(context.Background(), HistoryFilter{Script: "no-such-script"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.Count)
	assert.Empty(t, result.Entries)
	assert.Equal(t, 0.0, result.Summary.WinRate)
}

func TestQueryHistoryBeforeInitialization(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.QueryHistory(context.Background(), HistoryFilter{})
	assert.ErrorIs(t, err, models.ErrNotInitialized)
}
