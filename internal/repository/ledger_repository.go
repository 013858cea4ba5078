package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/bioboost/internal/database"
	"github.com/yourusername/bioboost/internal/models"
)

// PostgresLedgerRepository implements LedgerRepository for PostgreSQL. The
// ledger lives in a single guarded row; mutations bump its version and are
// rejected when the caller's version is stale, so concurrent writers cannot
// silently overwrite each other.
type PostgresLedgerRepository struct {
	db *database.DB
}

// NewPostgresLedgerRepository creates a new ledger repository
func NewPostgresLedgerRepository(db *database.DB) LedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// Load retrieves the ledger row and its entries in insertion order
func (r *PostgresLedgerRepository) Load(ctx context.Context) (*models.Ledger, error) {
	ledgerQuery := `
		SELECT starting_balance::text, current_balance::text, pruned_profit::text,
		       total_bets, total_wins, total_losses, version, created_at
		FROM bankroll_ledger WHERE id = 1
	`

	ledger := &models.Ledger{}
	var startStr, currentStr, prunedStr string
	err := r.db.GetPool().QueryRow(ctx, ledgerQuery).Scan(
		&startStr, &currentStr, &prunedStr, &ledger.TotalBets, &ledger.TotalWins, &ledger.TotalLosses,
		&ledger.Version, &ledger.Created,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	if ledger.StartingBalance, err = decimal.NewFromString(startStr); err != nil {
		return nil, fmt.Errorf("failed to parse starting balance: %w", err)
	}
	if ledger.CurrentBalance, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse current balance: %w", err)
	}
	if ledger.PrunedProfit, err = decimal.NewFromString(prunedStr); err != nil {
		return nil, fmt.Errorf("failed to parse pruned profit: %w", err)
	}

	entries, err := r.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	ledger.Entries = entries

	return ledger, nil
}

// loadEntries retrieves all journal entries ordered by insertion sequence
func (r *PostgresLedgerRepository) loadEntries(ctx context.Context) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, entry_type, created_at, balance::text, slip, script, stack, bet_type,
		       odds, recommended_stake::text, status, profit::text, settled_at, description
		FROM ledger_entries
		ORDER BY seq ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// scanEntry maps one row onto a LedgerEntry
func scanEntry(rows pgx.Rows) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{}
	var balanceStr, stakeStr string
	var profitStr *string
	var status *string

	err := rows.Scan(
		&entry.ID, &entry.Type, &entry.Timestamp, &balanceStr, &entry.Slip, &entry.Script,
		&entry.Stack, &entry.BetType, &entry.Odds, &stakeStr, &status, &profitStr,
		&entry.SettledAt, &entry.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	if entry.Balance, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("failed to parse entry balance: %w", err)
	}
	if entry.RecommendedStake, err = decimal.NewFromString(stakeStr); err != nil {
		return nil, fmt.Errorf("failed to parse recommended stake: %w", err)
	}
	if status != nil {
		entry.Status = models.BetStatus(*status)
	}
	if profitStr != nil {
		profit, err := decimal.NewFromString(*profitStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entry profit: %w", err)
		}
		entry.Profit = &profit
	}

	return entry, nil
}

// Create inserts the ledger row and its initialization entries atomically
func (r *PostgresLedgerRepository) Create(ctx context.Context, ledger *models.Ledger) error {
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bankroll_ledger WHERE id = 1)`).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return models.ErrAlreadyInitialized
		}

		insertLedger := `
			INSERT INTO bankroll_ledger (id, starting_balance, current_balance, pruned_profit, total_bets, total_wins, total_losses, version, created_at)
			VALUES (1, $1, $2, $3, $4, $5, $6, 1, $7)
		`
		_, err := tx.Exec(ctx, insertLedger,
			ledger.StartingBalance.String(), ledger.CurrentBalance.String(), ledger.PrunedProfit.String(),
			ledger.TotalBets, ledger.TotalWins, ledger.TotalLosses, ledger.Created,
		)
		if err != nil {
			return err
		}

		for _, entry := range ledger.Entries {
			if err := insertEntry(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, models.ErrAlreadyInitialized) {
		return models.ErrAlreadyInitialized
	}
	if err != nil {
		return models.NewPersistenceError("create", err)
	}

	ledger.Version = 1
	return nil
}

// Save applies the aggregate update and entry delta in one transaction,
// guarded by the optimistic version check
func (r *PostgresLedgerRepository) Save(ctx context.Context, ledger *models.Ledger, delta ChangeSet) error {
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		updateLedger := `
			UPDATE bankroll_ledger SET
				current_balance = $1, pruned_profit = $2, total_bets = $3, total_wins = $4, total_losses = $5,
				version = version + 1
			WHERE id = 1 AND version = $6
		`
		tag, err := tx.Exec(ctx, updateLedger,
			ledger.CurrentBalance.String(), ledger.PrunedProfit.String(),
			ledger.TotalBets, ledger.TotalWins, ledger.TotalLosses,
			ledger.Version,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrVersionConflict
		}

		for _, entry := range delta.Updated {
			updateEntry := `
				UPDATE ledger_entries SET status = $2, profit = $3, settled_at = $4
				WHERE id = $1
			`
			var profit *string
			if entry.Profit != nil {
				s := entry.Profit.String()
				profit = &s
			}
			tag, err := tx.Exec(ctx, updateEntry, entry.ID, nullableStatus(entry.Status), profit, entry.SettledAt)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return models.ErrNotFound
			}
		}

		for _, entry := range delta.Appended {
			if err := insertEntry(ctx, tx, entry); err != nil {
				return err
			}
		}

		if len(delta.Pruned) > 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE id = ANY($1)`, delta.Pruned); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewPersistenceError("save", err)
	}

	ledger.Version++
	return nil
}

// insertEntry appends one journal row within the given transaction
func insertEntry(ctx context.Context, tx pgx.Tx, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, entry_type, created_at, balance, slip, script, stack, bet_type,
		                            odds, recommended_stake, status, profit, settled_at, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	var profit *string
	if entry.Profit != nil {
		s := entry.Profit.String()
		profit = &s
	}
	_, err := tx.Exec(ctx, query,
		entry.ID, entry.Type, entry.Timestamp, entry.Balance.String(), entry.Slip, entry.Script,
		entry.Stack, entry.BetType, entry.Odds, entry.RecommendedStake.String(),
		nullableStatus(entry.Status), profit, entry.SettledAt, entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// nullableStatus maps the zero status onto SQL NULL
func nullableStatus(s models.BetStatus) *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

// Ping verifies database connectivity with a short deadline
func (r *PostgresLedgerRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.db.Ping(ctx)
}
