package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
)

// ChannelRepository persists the approved channel reference list.
type ChannelRepository struct {
	db *sql.DB
}

// NewChannelRepository creates a new ChannelRepository with the given database connection
func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Upsert inserts or refreshes each channel keyed by channel name.
func (r *ChannelRepository) Upsert(ctx context.Context, channels []models.ApprovedChannel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO approved_channels (channel_name, platform, age_min, age_max)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (channel_name) DO UPDATE SET
			platform = excluded.platform,
			age_min = excluded.age_min,
			age_max = excluded.age_max
	`
	for _, c := range channels {
		if _, err := tx.ExecContext(ctx, query, c.ChannelName, c.Platform, c.AgeMin, c.AgeMax); err != nil {
			return fmt.Errorf("failed to upsert channel %q: %w", c.ChannelName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit channels: %w", err)
	}
	return nil
}

// List returns all approved channels ordered by name.
func (r *ChannelRepository) List(ctx context.Context) ([]models.ApprovedChannel, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT channel_name, platform, age_min, age_max FROM approved_channels ORDER BY channel_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query approved channels: %w", err)
	}
	defer rows.Close()

	channels := []models.ApprovedChannel{}
	for rows.Next() {
		var c models.ApprovedChannel
		if err := rows.Scan(&c.ChannelName, &c.Platform, &c.AgeMin, &c.AgeMax); err != nil {
			return nil, fmt.Errorf("failed to scan approved channel: %w", err)
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}
