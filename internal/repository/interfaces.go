// Package repository defines persistence for the bankroll ledger and its
// PostgreSQL and in-memory implementations.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/bioboost/internal/models"
)

// ChangeSet describes the entry-level delta of one ledger mutation so
// implementations can persist it without rewriting the whole journal
type ChangeSet struct {
	Appended []*models.LedgerEntry
	Updated  []*models.LedgerEntry
	Pruned   []uuid.UUID
}

// LedgerRepository persists the single bankroll ledger. Save performs an
// optimistic read-modify-write: the ledger's Version must match the stored
// version or the write is rejected with models.ErrVersionConflict, and the
// implementation bumps Version on success. Implementations must apply the
// whole change set atomically.
type LedgerRepository interface {
	// Load retrieves the ledger with its entries in insertion order.
	// Returns models.ErrNotFound if no ledger has been initialized.
	Load(ctx context.Context) (*models.Ledger, error)

	// Create persists a brand new ledger. Returns
	// models.ErrAlreadyInitialized if one already exists.
	Create(ctx context.Context, ledger *models.Ledger) error

	// Save persists updated aggregates plus the entry delta under
	// optimistic version control.
	Save(ctx context.Context, ledger *models.Ledger, delta ChangeSet) error

	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error
}
