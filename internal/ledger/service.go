// Package ledger implements the bankroll ledger: an append-only journal of
// bankroll events with materialized balances, a settlement engine, and
// retention pruning. All mutations are serialized through a single writer
// and persisted before they become visible, so a failed durable write never
// leaves the in-memory state ahead of the store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	applog "github.com/yourusername/bioboost/internal/logger"
	"github.com/yourusername/bioboost/internal/metrics"
	"github.com/yourusername/bioboost/internal/models"
	"github.com/yourusername/bioboost/internal/repository"
)

// Config holds ledger behavior settings
type Config struct {
	// RetentionLimit bounds the journal to the most recent N entries.
	// Pruning never removes a pending recommendation.
	RetentionLimit int `mapstructure:"retention_limit" validate:"required,gt=0"`
	// WriteTimeout bounds each durable write; on expiry the mutation is
	// rejected, not silently dropped
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required"`
}

// DefaultConfig returns the recommended ledger settings
func DefaultConfig() Config {
	return Config{
		RetentionLimit: 1000,
		WriteTimeout:   10 * time.Second,
	}
}

// BetData carries the caller-supplied fields of a bet recommendation
type BetData struct {
	Slip             string          `json:"slip" validate:"required"`
	Script           string          `json:"script,omitempty"`
	Stack            string          `json:"stack,omitempty"`
	BetType          string          `json:"bet_type,omitempty"`
	Odds             float64         `json:"odds,omitempty"`
	RecommendedStake decimal.Decimal `json:"recommended_stake" validate:"required"`
	Description      string          `json:"description,omitempty"`
}

// Service is the single writer in front of the ledger repository
type Service struct {
	repo   repository.LedgerRepository
	config Config
	logger *logrus.Logger
	audit  *applog.AuditLogger

	mu    sync.RWMutex
	state *models.Ledger // nil until initialized or loaded
}

// NewService creates a ledger service backed by the given repository
func NewService(repo repository.LedgerRepository, config Config, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		config: config,
		logger: logger,
		audit:  applog.NewAuditLogger(logger),
	}
}

// Initialize creates the ledger with its initialization entry. Fails with
// models.ErrAlreadyInitialized if a ledger already exists, in memory or in
// the store.
func (s *Service) Initialize(ctx context.Context, startAmount decimal.Decimal) (*models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil {
		return nil, models.ErrAlreadyInitialized
	}
	if _, err := s.repo.Load(ctx); err == nil {
		return nil, models.ErrAlreadyInitialized
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing ledger: %w", err)
	}

	start := startAmount.Round(2)
	now := time.Now().UTC()
	ledger := &models.Ledger{
		StartingBalance: start,
		CurrentBalance:  start,
		Created:         now,
		Entries: []*models.LedgerEntry{
			{
				ID:          uuid.New(),
				Type:        models.EntryTypeInitialization,
				Timestamp:   now,
				Balance:     start,
				Description: fmt.Sprintf("bankroll initialized at %s", start.StringFixed(2)),
			},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.config.WriteTimeout)
	defer cancel()

	if err := s.repo.Create(writeCtx, ledger); err != nil {
		metrics.PersistenceFailuresTotal.Inc()
		return nil, err
	}

	s.state = ledger
	s.publishGauges()
	s.audit.LogInitialization(start.StringFixed(2), now)

	return ledger.Clone(), nil
}

// GetStatus returns a consistent snapshot of the ledger. Fails with
// models.ErrNotInitialized before initialization.
func (s *Service) GetStatus(ctx context.Context) (*models.Ledger, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

// LogBetRecommendation appends a pending recommendation entry. The current
// balance is unchanged; the entry's balance snapshot carries it forward.
func (s *Service) LogBetRecommendation(ctx context.Context, data BetData) (*models.LedgerEntry, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.state.Clone()
	entry := &models.LedgerEntry{
		ID:               uuid.New(),
		Type:             models.EntryTypeBetRecommendation,
		Timestamp:        time.Now().UTC(),
		Balance:          candidate.CurrentBalance,
		Slip:             data.Slip,
		Script:           data.Script,
		Stack:            data.Stack,
		BetType:          data.BetType,
		Odds:             data.Odds,
		RecommendedStake: data.RecommendedStake.Round(2),
		Status:           models.BetStatusPending,
		Description:      data.Description,
	}
	candidate.Entries = append(candidate.Entries, entry)

	delta := repository.ChangeSet{Appended: []*models.LedgerEntry{entry}}
	prune(candidate, s.config.RetentionLimit, &delta)

	if err := s.persist(ctx, candidate, delta); err != nil {
		return nil, err
	}

	s.state = candidate
	s.publishGauges()
	metrics.RecordRecommendation()
	s.audit.LogRecommendation(entry.ID.String(), data.Slip, data.Script, data.Stack,
		entry.RecommendedStake.StringFixed(2), data.Odds)

	return entry.Clone(), nil
}

// UpdateBetResult settles the most recent pending recommendation for the
// slip exactly once: the recommendation entry transitions pending -> result,
// the profit is applied to the balance, and a settlement entry carrying the
// new balance is appended. A second settlement for the same slip fails with
// models.ErrNoPendingBet and leaves the balance untouched.
func (s *Service) UpdateBetResult(ctx context.Context, slip string, result models.BetResult, amount *decimal.Decimal) (*models.LedgerEntry, error) {
	if !result.IsValid() {
		return nil, models.ErrInvalidResult
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.state.Clone()

	pending := findPending(candidate.Entries, slip)
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: %q", models.ErrNoPendingBet, slip)
	}
	if len(pending) > 1 {
		s.logger.WithFields(logrus.Fields{
			"slip":  slip,
			"count": len(pending),
		}).Warn("Multiple pending bets share slip, settling most recent")
	}
	target := pending[len(pending)-1]

	stake := target.RecommendedStake
	if amount != nil {
		stake = amount.Round(2)
	}
	profit := stake
	if result == models.BetResultLoss {
		profit = stake.Neg()
	}

	now := time.Now().UTC()
	target.Status = models.BetStatus(result)
	target.Profit = &profit
	target.SettledAt = &now

	candidate.CurrentBalance = candidate.CurrentBalance.Add(profit)
	candidate.TotalBets++
	if result == models.BetResultWin {
		candidate.TotalWins++
	} else {
		candidate.TotalLosses++
	}

	settlement := &models.LedgerEntry{
		ID:          uuid.New(),
		Type:        models.EntryTypeBetSettlement,
		Timestamp:   now,
		Balance:     candidate.CurrentBalance,
		Slip:        slip,
		Script:      target.Script,
		Stack:       target.Stack,
		Status:      models.BetStatus(result),
		Profit:      &profit,
		SettledAt:   &now,
		Description: fmt.Sprintf("settled %s as %s, profit %s", slip, result, profit.StringFixed(2)),
	}
	candidate.Entries = append(candidate.Entries, settlement)

	delta := repository.ChangeSet{
		Appended: []*models.LedgerEntry{settlement},
		Updated:  []*models.LedgerEntry{target},
	}
	prune(candidate, s.config.RetentionLimit, &delta)

	if err := s.persist(ctx, candidate, delta); err != nil {
		return nil, err
	}

	balanceBefore := s.state.CurrentBalance

	s.state = candidate
	s.publishGauges()
	metrics.RecordSettlement(string(result))
	s.audit.LogSettlement(settlement.ID.String(), slip, string(result),
		profit.StringFixed(2), balanceBefore.StringFixed(2), candidate.CurrentBalance.StringFixed(2))

	return settlement.Clone(), nil
}

// Reconcile verifies that the materialized balance matches the journal:
// currentBalance must equal startingBalance plus pruned profit plus the sum
// of retained settlement profits. Read-only.
func (s *Service) Reconcile(ctx context.Context) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	expected := s.state.StartingBalance.Add(s.state.PrunedProfit)
	for _, e := range s.state.Entries {
		if e.Type == models.EntryTypeBetSettlement && e.Profit != nil {
			expected = expected.Add(*e.Profit)
		}
	}

	if !expected.Equal(s.state.CurrentBalance) {
		metrics.ReconciliationFailuresTotal.Inc()
		return fmt.Errorf("ledger reconciliation failed: journal implies %s, materialized balance is %s",
			expected.StringFixed(2), s.state.CurrentBalance.StringFixed(2))
	}

	return nil
}

// ensureLoaded hydrates the in-memory state from the repository on first use
func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.state != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		return nil
	}

	ledger, err := s.repo.Load(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	s.state = ledger
	s.publishGauges()
	return nil
}

// persist writes the candidate state under the configured deadline. On any
// failure the caller must discard the candidate; s.state is untouched.
func (s *Service) persist(ctx context.Context, candidate *models.Ledger, delta repository.ChangeSet) error {
	writeCtx, cancel := context.WithTimeout(ctx, s.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Save(writeCtx, candidate, delta)
	metrics.PersistLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PersistenceFailuresTotal.Inc()
		var perr *models.PersistenceError
		if errors.As(err, &perr) && perr.IsConflict() {
			metrics.PersistenceConflictsTotal.Inc()
		}
		s.logger.WithError(err).Error("Durable ledger write failed, mutation discarded")
		return err
	}
	return nil
}

// publishGauges refreshes the Prometheus gauges from current state. Caller
// must hold at least a read lock.
func (s *Service) publishGauges() {
	bankroll, _ := s.state.CurrentBalance.Float64()
	metrics.UpdateLedgerGauges(bankroll, s.state.PendingCount(), s.state.WinRate(), len(s.state.Entries))
}

// findPending returns all pending recommendation entries for the slip in
// journal order
func findPending(entries []*models.LedgerEntry, slip string) []*models.LedgerEntry {
	var matches []*models.LedgerEntry
	for _, e := range entries {
		if e.IsPending() && e.Slip == slip {
			matches = append(matches, e)
		}
	}
	return matches
}

// prune trims the journal head down to the retention limit, skipping
// pending recommendations and folding the profit of removed settlements
// into PrunedProfit so the balance invariant survives truncation
func prune(ledger *models.Ledger, limit int, delta *repository.ChangeSet) {
	if len(ledger.Entries) <= limit {
		return
	}

	excess := len(ledger.Entries) - limit
	kept := make([]*models.LedgerEntry, 0, len(ledger.Entries))
	for _, e := range ledger.Entries {
		if excess > 0 && !e.IsPending() {
			if e.Type == models.EntryTypeBetSettlement && e.Profit != nil {
				ledger.PrunedProfit = ledger.PrunedProfit.Add(*e.Profit)
			}
			delta.Pruned = append(delta.Pruned, e.ID)
			excess--
			continue
		}
		kept = append(kept, e)
	}
	ledger.Entries = kept
}
