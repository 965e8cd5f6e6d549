package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ConcernRepository persists parents' screen-time concerns.
type ConcernRepository struct {
	db *sql.DB
}

// NewConcernRepository creates a new ConcernRepository with the given database connection
func NewConcernRepository(db *sql.DB) *ConcernRepository {
	return &ConcernRepository{db: db}
}

// Replace swaps userID's concerns for the given set in one transaction.
// Blank and repeated values are dropped.
func (r *ConcernRepository) Replace(ctx context.Context, userID string, concerns []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM parent_concerns WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear concerns: %w", err)
	}

	ts := now()
	for _, concern := range concerns {
		concern = strings.TrimSpace(concern)
		if concern == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO parent_concerns (user_id, concern, created_at) VALUES (?, ?, ?)",
			userID, concern, ts,
		); err != nil {
			return fmt.Errorf("failed to insert concern %q: %w", concern, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit concerns: %w", err)
	}
	return nil
}

// List returns userID's concerns in alphabetical order.
func (r *ConcernRepository) List(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT concern FROM parent_concerns WHERE user_id = ? ORDER BY concern", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query concerns: %w", err)
	}
	defer rows.Close()

	concerns := []string{}
	for rows.Next() {
		var concern string
		if err := rows.Scan(&concern); err != nil {
			return nil, fmt.Errorf("failed to scan concern: %w", err)
		}
		concerns = append(concerns, concern)
	}
	return concerns, rows.Err()
}
