package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// FollowRepository persists follower to username edges.
type FollowRepository struct {
	db *sql.DB
}

// NewFollowRepository creates a new FollowRepository with the given database connection
func NewFollowRepository(db *sql.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Add records that followerID follows username. Repeated adds are no-ops.
func (r *FollowRepository) Add(ctx context.Context, followerID, username string) error {
	query := `
		INSERT INTO follows (follower_id, following_username, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (follower_id, following_username) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, followerID, username, now()); err != nil {
		return fmt.Errorf("failed to add follow: %w", err)
	}
	return nil
}

// Remove deletes the edge if present.
func (r *FollowRepository) Remove(ctx context.Context, followerID, username string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = ? AND following_username = ?",
		followerID, username,
	); err != nil {
		return fmt.Errorf("failed to remove follow: %w", err)
	}
	return nil
}

// List returns the usernames followerID follows, in follow order.
func (r *FollowRepository) List(ctx context.Context, followerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT following_username FROM follows WHERE follower_id = ? ORDER BY created_at ASC, following_username ASC",
		followerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		usernames = append(usernames, username)
	}
	return usernames, rows.Err()
}
