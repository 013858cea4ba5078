// Package scheduler manages periodic background jobs for the ledger daemon.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bioboost/internal/ledger"
	"github.com/yourusername/bioboost/internal/logger"
	"github.com/yourusername/bioboost/internal/metrics"
)

// Scheduler runs periodic ledger maintenance jobs.
type Scheduler struct {
	cron      *cron.Cron
	ledgerSvc *ledger.Service
	logger    *logrus.Logger
	audit     *logger.AuditLogger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler around the ledger service.
func NewScheduler(ledgerSvc *ledger.Service, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		ledgerSvc: ledgerSvc,
		logger:    log,
		audit:     logger.NewAuditLogger(log),
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// ScheduleReconciliation schedules a periodic check that the ledger balance
// matches the sum of its settled entries.
func (s *Scheduler) ScheduleReconciliation(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.ledgerSvc.Reconcile(ctx); err != nil {
			s.audit.LogReconciliationFailure(err)
			return
		}

		s.logger.Debug("Ledger reconciliation passed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add reconciliation job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled ledger reconciliation job")

	return nil
}

// ScheduleGaugeRefresh schedules a periodic refresh of the ledger metrics
// gauges so dashboards stay fresh even when no bets are flowing.
func (s *Scheduler) ScheduleGaugeRefresh(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		state, err := s.ledgerSvc.GetStatus(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Gauge refresh skipped: ledger unavailable")
			return
		}

		bankroll, _ := state.CurrentBalance.Float64()
		metrics.UpdateLedgerGauges(bankroll, state.PendingCount(), state.WinRate(), len(state.Entries))
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add gauge refresh job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled metrics gauge refresh job")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
