package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the kind of ledger entry
type EntryType string

const (
	EntryTypeInitialization    EntryType = "initialization"
	EntryTypeBetRecommendation EntryType = "bet_recommendation"
	EntryTypeBetSettlement     EntryType = "bet_settlement"
)

// BetStatus represents the lifecycle state of a recommendation entry
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWin     BetStatus = "win"
	BetStatusLoss    BetStatus = "loss"
)

// BetResult is a settlement outcome reported by the caller
type BetResult string

const (
	BetResultWin  BetResult = "win"
	BetResultLoss BetResult = "loss"
)

// IsValid checks whether the result is one of the two accepted outcomes
func (r BetResult) IsValid() bool {
	return r == BetResultWin || r == BetResultLoss
}

// LedgerEntry is one immutable record of a bankroll-affecting or
// bankroll-neutral event. Balance is the snapshot taken after applying the
// entry's effect; initialization and recommendation entries leave it
// unchanged, settlement entries mutate it.
type LedgerEntry struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	Type             EntryType        `db:"entry_type" json:"type" validate:"required,oneof=initialization bet_recommendation bet_settlement"`
	Timestamp        time.Time        `db:"created_at" json:"timestamp"`
	Balance          decimal.Decimal  `db:"balance" json:"balance"`
	Slip             string           `db:"slip" json:"slip,omitempty"`
	Script           string           `db:"script" json:"script,omitempty"`
	Stack            string           `db:"stack" json:"stack,omitempty"`
	BetType          string           `db:"bet_type" json:"bet_type,omitempty"`
	Odds             float64          `db:"odds" json:"odds,omitempty"`
	RecommendedStake decimal.Decimal  `db:"recommended_stake" json:"recommended_stake,omitempty"`
	Status           BetStatus        `db:"status" json:"status,omitempty"`
	Profit           *decimal.Decimal `db:"profit" json:"profit,omitempty"`
	SettledAt        *time.Time       `db:"settled_at" json:"settled_at,omitempty"`
	Description      string           `db:"description" json:"description,omitempty"`
}

// IsPending checks if the entry is an unsettled recommendation
func (e *LedgerEntry) IsPending() bool {
	return e.Type == EntryTypeBetRecommendation && e.Status == BetStatusPending
}

// IsSettled checks if the entry is a settled recommendation
func (e *LedgerEntry) IsSettled() bool {
	return e.Type == EntryTypeBetRecommendation &&
		(e.Status == BetStatusWin || e.Status == BetStatusLoss) &&
		e.SettledAt != nil
}

// Clone returns a deep copy of the entry
func (e *LedgerEntry) Clone() *LedgerEntry {
	c := *e
	if e.Profit != nil {
		p := *e.Profit
		c.Profit = &p
	}
	if e.SettledAt != nil {
		t := *e.SettledAt
		c.SettledAt = &t
	}
	return &c
}

// Ledger is the aggregate bankroll record: materialized balances and
// counters plus the ordered entry journal, bounded to the most recent N
// entries. Insertion order is significant.
type Ledger struct {
	StartingBalance decimal.Decimal `db:"starting_balance" json:"starting_balance"`
	CurrentBalance  decimal.Decimal `db:"current_balance" json:"current_balance"`
	// PrunedProfit accumulates the profit of settlement entries removed by
	// retention pruning, so the balance invariant remains checkable against
	// the retained journal alone
	PrunedProfit decimal.Decimal `db:"pruned_profit" json:"pruned_profit"`
	TotalBets    int             `db:"total_bets" json:"total_bets"`
	TotalWins    int             `db:"total_wins" json:"total_wins"`
	TotalLosses  int             `db:"total_losses" json:"total_losses"`
	Created      time.Time       `db:"created_at" json:"created"`
	Version      int64           `db:"version" json:"-"`
	Entries      []*LedgerEntry  `json:"entries"`
}

// NetProfit returns current balance minus starting balance
func (l *Ledger) NetProfit() decimal.Decimal {
	return l.CurrentBalance.Sub(l.StartingBalance)
}

// ROI returns the net profit as a percentage of the starting balance
func (l *Ledger) ROI() float64 {
	if l.StartingBalance.IsZero() {
		return 0
	}
	roi, _ := l.NetProfit().Div(l.StartingBalance).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

// WinRate returns the fraction of settled bets that won
func (l *Ledger) WinRate() float64 {
	settled := l.TotalWins + l.TotalLosses
	if settled == 0 {
		return 0
	}
	return float64(l.TotalWins) / float64(settled)
}

// CurrentStreak returns the run of consecutive identical outcomes ending at
// the most recent settlement: positive for wins, negative for losses, zero
// when the retained journal holds no settlements.
func (l *Ledger) CurrentStreak() int {
	streak := 0
	var last BetStatus
	for i := len(l.Entries) - 1; i >= 0; i-- {
		e := l.Entries[i]
		if e.Type != EntryTypeBetSettlement {
			continue
		}
		if last == "" {
			last = e.Status
		}
		if e.Status != last {
			break
		}
		streak++
	}
	if last == BetStatusLoss {
		return -streak
	}
	return streak
}

// PendingCount returns the number of unsettled recommendation entries
func (l *Ledger) PendingCount() int {
	count := 0
	for _, e := range l.Entries {
		if e.IsPending() {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the ledger, entries included
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Entries = make([]*LedgerEntry, len(l.Entries))
	for i, e := range l.Entries {
		c.Entries[i] = e.Clone()
	}
	return &c
}
