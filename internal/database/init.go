package database

import (
	"context"
	"fmt"

	"github.com/yourusername/bioboost/internal/config"
)

// schema holds the DDL for the ledger tables. The seq column preserves
// journal insertion order independently of timestamps.
const schema = `
CREATE TABLE IF NOT EXISTS bankroll_ledger (
	id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	starting_balance NUMERIC(14,2) NOT NULL,
	current_balance NUMERIC(14,2) NOT NULL,
	pruned_profit NUMERIC(14,2) NOT NULL DEFAULT 0,
	total_bets INTEGER NOT NULL DEFAULT 0,
	total_wins INTEGER NOT NULL DEFAULT 0,
	total_losses INTEGER NOT NULL DEFAULT 0,
	version BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id UUID PRIMARY KEY,
	seq BIGSERIAL,
	entry_type TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	balance NUMERIC(14,2) NOT NULL,
	slip TEXT NOT NULL DEFAULT '',
	script TEXT NOT NULL DEFAULT '',
	stack TEXT NOT NULL DEFAULT '',
	bet_type TEXT NOT NULL DEFAULT '',
	odds DOUBLE PRECISION NOT NULL DEFAULT 0,
	recommended_stake NUMERIC(14,2) NOT NULL DEFAULT 0,
	status TEXT,
	profit NUMERIC(14,2),
	settled_at TIMESTAMPTZ,
	description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_slip ON ledger_entries (slip) WHERE slip <> '';
CREATE INDEX IF NOT EXISTS idx_ledger_entries_status ON ledger_entries (status) WHERE status = 'pending';
`

// Initialize creates a database connection pool and ensures the ledger
// schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure ledger schema: %w", err)
	}

	return db, nil
}
