package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	db := SetupTestDB(t)
	t.Cleanup(func() { TeardownTestDB(t, db) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO bankroll_ledger (id, starting_balance, current_balance, pruned_profit, total_bets, total_wins, total_losses, version, created_at)
			VALUES (1, 1000, 1000, 0, 0, 0, 0, 1, $1)
		`, time.Now().UTC())
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM bankroll_ledger`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db := SetupTestDB(t)
	t.Cleanup(func() { TeardownTestDB(t, db) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, `
			INSERT INTO bankroll_ledger (id, starting_balance, current_balance, pruned_profit, total_bets, total_wins, total_losses, version, created_at)
			VALUES (1, 1000, 1000, 0, 0, 0, 0, 1, $1)
		`, time.Now().UTC())
		require.NoError(t, execErr)
		return boom
	})

	// The callback error comes back unwrapped and the write is discarded.
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM bankroll_ledger`).Scan(&count))
	assert.Equal(t, 0, count)
}
