package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// CommunityRepository persists community posts.
type CommunityRepository struct {
	db *sql.DB
}

// NewCommunityRepository creates a new CommunityRepository with the given database connection
func NewCommunityRepository(db *sql.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// Create inserts a post, assigning its id and creation time.
func (r *CommunityRepository) Create(ctx context.Context, post *models.CommunityPost) error {
	post.ID = shared.GenerateID()
	post.CreatedAt = now()
	if len(post.Resources) == 0 {
		post.Resources = json.RawMessage("[]")
	}

	query := `
		INSERT INTO community_posts (id, user_id, user_name, title, body, moment, age_group, resources, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.UserName,
		post.Title,
		post.Body,
		stringArg(post.Moment),
		stringArg(post.AgeGroup),
		string(post.Resources),
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert community post: %w", err)
	}
	return nil
}

// Recent returns up to limit posts, newest first.
func (r *CommunityRepository) Recent(ctx context.Context, limit int) ([]models.CommunityPost, error) {
	query := `
		SELECT id, user_id, user_name, title, body, moment, age_group, resources, created_at
		FROM community_posts
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query community posts: %w", err)
	}
	defer rows.Close()

	posts := []models.CommunityPost{}
	for rows.Next() {
		var (
			post      models.CommunityPost
			moment    sql.NullString
			ageGroup  sql.NullString
			resources string
		)
		if err := rows.Scan(&post.ID, &post.UserID, &post.UserName, &post.Title, &post.Body, &moment, &ageGroup, &resources, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan community post: %w", err)
		}
		post.Moment = nullString(moment)
		post.AgeGroup = nullString(ageGroup)
		post.Resources = json.RawMessage(resources)
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return posts, nil
}
