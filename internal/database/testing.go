package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/bioboost/internal/config"
)

// SetupTestDB creates a test database connection and ensures the ledger
// schema exists. Skips the test when BIOBOOST_TEST_DATABASE is not set so
// unit runs stay hermetic.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("BIOBOOST_TEST_DATABASE") == "" {
		t.Skip("BIOBOOST_TEST_DATABASE not set, skipping database test")
	}

	cfg, err := config.LoadWithDefaults("")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	return db
}

// TeardownTestDB truncates the ledger tables and closes the connection
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.pool.Exec(ctx, "TRUNCATE bankroll_ledger, ledger_entries"); err != nil {
		t.Logf("warning: failed to truncate test tables: %v", err)
	}
	db.Close()
}
