package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yourusername/bioboost/internal/models"
)

// HistoryFilter selects ledger entries for a history query. Zero-valued
// fields match everything; Limit keeps only the trailing N matches.
type HistoryFilter struct {
	Script string           `json:"script,omitempty"`
	Stack  string           `json:"stack,omitempty"`
	Type   models.EntryType `json:"type,omitempty"`
	Result models.BetStatus `json:"result,omitempty"`
	Limit  int              `json:"limit,omitempty"`
}

// HistorySummary aggregates the filtered entries
type HistorySummary struct {
	Count       int             `json:"count"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	Pending     int             `json:"pending"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	WinRate     float64         `json:"win_rate"`
}

// HistoryResult is the outcome of a history query
type HistoryResult struct {
	Summary HistorySummary        `json:"summary"`
	Entries []*models.LedgerEntry `json:"entries"`
}

// QueryHistory filters the journal without mutating state. Entries are
// returned in insertion order from a consistent snapshot.
func (s *Service) QueryHistory(ctx context.Context, filter HistoryFilter) (*HistoryResult, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.LedgerEntry
	for _, e := range s.state.Entries {
		if !matches(e, filter) {
			continue
		}
		matched = append(matched, e.Clone())
	}

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[len(matched)-filter.Limit:]
	}

	return &HistoryResult{
		Summary: summarize(matched),
		Entries: matched,
	}, nil
}

// matches checks one entry against the filter
func matches(e *models.LedgerEntry, f HistoryFilter) bool {
	if f.Script != "" && e.Script != f.Script {
		return false
	}
	if f.Stack != "" && e.Stack != f.Stack {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Result != "" && e.Status != f.Result {
		return false
	}
	return true
}

// summarize aggregates counts and profit over the matched entries
func summarize(entries []*models.LedgerEntry) HistorySummary {
	summary := HistorySummary{
		Count:       len(entries),
		TotalProfit: decimal.Zero,
	}

	for _, e := range entries {
		switch {
		case e.IsPending():
			summary.Pending++
		case e.Type == models.EntryTypeBetSettlement && e.Status == models.BetStatusWin:
			summary.Wins++
		case e.Type == models.EntryTypeBetSettlement && e.Status == models.BetStatusLoss:
			summary.Losses++
		}
		if e.Type == models.EntryTypeBetSettlement && e.Profit != nil {
			summary.TotalProfit = summary.TotalProfit.Add(*e.Profit)
		}
	}

	if settled := summary.Wins + summary.Losses; settled > 0 {
		summary.WinRate = float64(summary.Wins) / float64(settled)
	}

	return summary
}
