package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// FeedbackRepository persists feedback entries.
type FeedbackRepository struct {
	db *sql.DB
}

// NewFeedbackRepository creates a new FeedbackRepository with the given database connection
func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback entry, assigning its id and creation time.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	f.ID = shared.GenerateID()
	f.CreatedAt = now()

	var rating any
	if f.Rating != nil {
		rating = *f.Rating
	}

	query := `
		INSERT INTO feedback (id, user_id, video_id, "trigger", rating, comment, email_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.UserID,
		stringArg(f.VideoID),
		f.Trigger,
		rating,
		stringArg(f.Comment),
		f.EmailSent,
		f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// ExistsSince reports whether userID has an entry with trigger created at or after since.
func (r *FeedbackRepository) ExistsSince(ctx context.Context, userID, trigger string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM feedback
			WHERE user_id = ? AND "trigger" = ? AND created_at >= ?
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, trigger, since.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent feedback: %w", err)
	}
	return exists, nil
}

// UnsentSince lists entries not yet reported by e-mail, newest first.
func (r *FeedbackRepository) UnsentSince(ctx context.Context, since time.Time) ([]models.Feedback, error) {
	query := `
		SELECT id, user_id, video_id, "trigger", rating, comment, email_sent, created_at
		FROM feedback
		WHERE email_sent = 0 AND created_at >= ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query unsent feedback: %w", err)
	}
	defer rows.Close()

	entries := []models.Feedback{}
	for rows.Next() {
		var (
			f       models.Feedback
			videoID sql.NullString
			rating  sql.NullInt64
			comment sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.UserID, &videoID, &f.Trigger, &rating, &comment, &f.EmailSent, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		f.VideoID = nullString(videoID)
		f.Comment = nullString(comment)
		if rating.Valid {
			v := int(rating.Int64)
			f.Rating = &v
		}
		entries = append(entries, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// MarkSent flags the given entries as reported.
func (r *FeedbackRepository) MarkSent(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := r.db.ExecContext(ctx, "UPDATE feedback SET email_sent = 1 WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to mark feedback sent: %w", err)
	}
	return nil
}
