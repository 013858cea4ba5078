package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bioboost/internal/models"
)

func sampleLedger() *models.Ledger {
	start := decimal.NewFromInt(1000)
	return &models.Ledger{
		StartingBalance: start,
		CurrentBalance:  start,
		Created:         time.Now().UTC(),
		Entries: []*models.LedgerEntry{
			{
				ID:        uuid.New(),
				Type:      models.EntryTypeInitialization,
				Timestamp: time.Now().UTC(),
				Balance:   start,
			},
		},
	}
}

func TestMemoryLoadWhenEmpty(t *testing.T) {
	repo := NewMemoryLedgerRepository()

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryCreateAndLoad(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	ctx := context.Background()

	ledger := sampleLedger()
	require.NoError(t, repo.Create(ctx, ledger))
	assert.Equal(t, int64(1), ledger.Version)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ledger.CurrentBalance.Equal(loaded.CurrentBalance))
	require.Len(t, loaded.Entries, 1)

	// Load returns a copy, not the stored instance
	loaded.CurrentBalance = decimal.NewFromInt(1)
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", again.CurrentBalance.StringFixed(2))
}

func TestMemoryCreateTwiceFails(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleLedger()))
	assert.ErrorIs(t, repo.Create(ctx, sampleLedger()), models.ErrAlreadyInitialized)
}

func TestMemorySaveBumpsVersion(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	ctx := context.Background()

	ledger := sampleLedger()
	require.NoError(t, repo.Create(ctx, ledger))

	ledger.CurrentBalance = decimal.NewFromInt(1050)
	require.NoError(t, repo.Save(ctx, ledger, ChangeSet{}))
	assert.Equal(t, int64(2), ledger.Version)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1050.00", loaded.CurrentBalance.StringFixed(2))
	assert.Equal(t, int64(2), loaded.Version)
}

func TestMemorySaveVersionConflict(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	ctx := context.Background()

	ledger := sampleLedger()
	require.NoError(t, repo.Create(ctx, ledger))

	stale := ledger.Clone()
	require.NoError(t, repo.Save(ctx, ledger, ChangeSet{}))

	// A writer holding the superseded version must be rejected
	err := repo.Save(ctx, stale, ChangeSet{})
	require.Error(t, err)

	var perr *models.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.IsConflict())
}

func TestMemorySaveWithoutCreate(t *testing.T) {
	repo := NewMemoryLedgerRepository()

	err := repo.Save(context.Background(), sampleLedger(), ChangeSet{})
	require.Error(t, err)

	var perr *models.PersistenceError
	assert.True(t, errors.As(err, &perr))
}

func TestMemoryFailNextSaveFiresOnce(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	ctx := context.Background()

	ledger := sampleLedger()
	require.NoError(t, repo.Create(ctx, ledger))

	repo.FailNextSave = errors.New("disk full")
	require.Error(t, repo.Save(ctx, ledger, ChangeSet{}))
	require.NoError(t, repo.Save(ctx, ledger, ChangeSet{}))
}

func TestMemoryPing(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	assert.NoError(t, repo.Ping(context.Background()))
}
