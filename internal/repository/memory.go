package repository

import (
	"context"
	"sync"

	"github.com/yourusername/bioboost/internal/models"
)

// MemoryLedgerRepository is an in-memory LedgerRepository used by tests and
// demo mode. It enforces the same optimistic versioning contract as the
// PostgreSQL implementation.
type MemoryLedgerRepository struct {
	mu     sync.Mutex
	ledger *models.Ledger

	// FailNextSave forces the next Save to fail, for exercising
	// fail-closed behavior in tests
	FailNextSave error
}

// NewMemoryLedgerRepository creates an empty in-memory repository
func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{}
}

// Load returns a deep copy of the stored ledger
func (r *MemoryLedgerRepository) Load(ctx context.Context) (*models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ledger == nil {
		return nil, models.ErrNotFound
	}
	return r.ledger.Clone(), nil
}

// Create stores a new ledger, rejecting a second initialization
func (r *MemoryLedgerRepository) Create(ctx context.Context, ledger *models.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ledger != nil {
		return models.ErrAlreadyInitialized
	}
	stored := ledger.Clone()
	stored.Version = 1
	r.ledger = stored
	ledger.Version = 1
	return nil
}

// Save replaces the stored ledger when the caller's version matches
func (r *MemoryLedgerRepository) Save(ctx context.Context, ledger *models.Ledger, delta ChangeSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailNextSave != nil {
		err := r.FailNextSave
		r.FailNextSave = nil
		return models.NewPersistenceError("save", err)
	}
	if r.ledger == nil {
		return models.NewPersistenceError("save", models.ErrNotFound)
	}
	if r.ledger.Version != ledger.Version {
		return models.NewPersistenceError("save", models.ErrVersionConflict)
	}

	stored := ledger.Clone()
	stored.Version = ledger.Version + 1
	r.ledger = stored
	ledger.Version = stored.Version
	return nil
}

// Ping always succeeds for the in-memory store
func (r *MemoryLedgerRepository) Ping(ctx context.Context) error {
	return nil
}
