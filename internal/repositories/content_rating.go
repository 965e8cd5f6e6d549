package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

const ratingColumns = `id, title, source, ai_approved, ai_score, ai_notes, scraped_at`

// ContentRatingRepository persists screening verdicts.
type ContentRatingRepository struct {
	db *sql.DB
}

// NewContentRatingRepository creates a new ContentRatingRepository with the given database connection
func NewContentRatingRepository(db *sql.DB) *ContentRatingRepository {
	return &ContentRatingRepository{db: db}
}

// Upsert stores a verdict for (title, source), replacing any earlier one, and returns the stored row.
func (r *ContentRatingRepository) Upsert(ctx context.Context, title, source string, result models.ScreeningResult) (*models.ContentRating, error) {
	query := `
		INSERT INTO content_ratings (id, title, source, ai_approved, ai_score, ai_notes, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (title, source) DO UPDATE SET
			ai_approved = excluded.ai_approved,
			ai_score = excluded.ai_score,
			ai_notes = excluded.ai_notes,
			scraped_at = excluded.scraped_at
	`
	_, err := r.db.ExecContext(ctx, query,
		shared.GenerateID(),
		title,
		source,
		result.Approved,
		result.Score,
		result.Notes,
		now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert content rating: %w", err)
	}

	row := r.db.QueryRowContext(ctx, "SELECT "+ratingColumns+" FROM content_ratings WHERE title = ? AND source = ?", title, source)
	return scanRating(row)
}

// SearchByTitle returns ratings whose title contains q, case-insensitively, newest first.
func (r *ContentRatingRepository) SearchByTitle(ctx context.Context, q string) ([]models.ContentRating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM content_ratings
		WHERE LOWER(title) LIKE '%' || LOWER(?) || '%' ESCAPE '\'
		ORDER BY scraped_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, escapeLike(q))
	if err != nil {
		return nil, fmt.Errorf("failed to query content ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.ContentRating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, *rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ratings, nil
}

func scanRating(row rowScanner) (*models.ContentRating, error) {
	var (
		rating   models.ContentRating
		approved sql.NullBool
		score    sql.NullFloat64
		notes    sql.NullString
	)

	err := row.Scan(&rating.ID, &rating.Title, &rating.Source, &approved, &score, &notes, &rating.ScrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: content rating", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content rating: %w", err)
	}

	if approved.Valid {
		rating.AIApproved = &approved.Bool
	}
	if score.Valid {
		rating.AIScore = &score.Float64
	}
	rating.AINotes = nullString(notes)

	return &rating, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
