// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for bankroll events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogInitialization logs the ledger initialization event.
func (al *AuditLogger) LogInitialization(startingBalance string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"starting_balance": startingBalance,
		"timestamp":        timestamp.Unix(),
	}).Info("Bankroll initialization recorded")
}

// LogRecommendation logs a bet recommendation event.
func (al *AuditLogger) LogRecommendation(entryID, slip, script, stack string, stake string, odds float64) {
	al.WithFields(logrus.Fields{
		"entry_id": entryID,
		"slip":     slip,
		"script":   script,
		"stack":    stack,
		"stake":    stake,
		"odds":     odds,
	}).Info("Bet recommendation recorded")
}

// LogSettlement logs a settlement event with its balance transition.
func (al *AuditLogger) LogSettlement(entryID, slip, result string, profit, balanceBefore, balanceAfter string) {
	al.WithFields(logrus.Fields{
		"entry_id":       entryID,
		"slip":           slip,
		"result":         result,
		"profit":         profit,
		"balance_before": balanceBefore,
		"balance_after":  balanceAfter,
	}).Info("Bet settlement recorded")
}

// LogReconciliationFailure logs balance drift found by reconciliation.
func (al *AuditLogger) LogReconciliationFailure(err error) {
	al.WithError(err).Error("Ledger reconciliation failed")
}
