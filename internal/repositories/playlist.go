package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

const playlistColumns = `p.id, p.sequence, p.user_id, p.name, p.description, p.moment, p.age_group, p.is_public, p.saves, p.created_at, p.updated_at`

// PlaylistRepository persists playlists, their tags and their items.
//
// Tag replacement and item position assignment each run in a single transaction.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a playlist owned by userID together with its tags.
//
// The input is expected to be validated and normalized.
func (r *PlaylistRepository) Create(ctx context.Context, userID string, in models.PlaylistInput) (*models.Playlist, error) {
	sequence, err := NextSequence(ctx, r.db, "playlists")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	ts := now()
	playlist := &models.Playlist{
		ID:          shared.GenerateID(),
		Sequence:    sequence,
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Moment:      in.Moment,
		AgeGroup:    in.AgeGroup,
		IsPublic:    in.IsPublic != nil && *in.IsPublic,
		Tags:        in.Tags,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if playlist.Tags == nil {
		playlist.Tags = []string{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO playlists (id, sequence, user_id, name, description, moment, age_group, is_public, saves, next_position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		playlist.ID,
		playlist.Sequence,
		playlist.UserID,
		playlist.Name,
		stringArg(playlist.Description),
		stringArg(playlist.Moment),
		stringArg(playlist.AgeGroup),
		playlist.IsPublic,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert playlist: %w", err)
	}

	if err := insertTags(ctx, tx, playlist.ID, playlist.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit playlist: %w", err)
	}

	return playlist, nil
}

// ListByUser returns the playlists owned by userID, newest first, with item counts and tags.
func (r *PlaylistRepository) ListByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	query := `
		SELECT ` + playlistColumns + `,
			(SELECT COUNT(*) FROM playlist_items i WHERE i.playlist_id = p.id) AS item_count
		FROM playlists p
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC, p.sequence DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows, true)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	tags, err := r.tagsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		if t, ok := tags[playlists[i].ID]; ok {
			playlists[i].Tags = t
		}
	}

	return playlists, nil
}

// Get retrieves a playlist with its tags and position-ordered items.
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.PlaylistDetail, error) {
	query := `
		SELECT ` + playlistColumns + `,
			(SELECT COUNT(*) FROM playlist_items i WHERE i.playlist_id = p.id) AS item_count
		FROM playlists p
		WHERE p.id = ?
	`

	playlist, err := scanPlaylist(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		return nil, err
	}

	if playlist.Tags, err = r.tags(ctx, id); err != nil {
		return nil, err
	}

	items, err := r.Items(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistDetail{Playlist: *playlist, Items: items}, nil
}

// OwnerOf returns the owning identity of a playlist.
func (r *PlaylistRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM playlists WHERE id = ?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load playlist owner: %w", err)
	}
	return owner, nil
}

// Update applies a partial update. Only fields present in the patch change; tags, when present,
// replace the whole set. updated_at is always refreshed. Field and tag writes share one transaction.
func (r *PlaylistRepository) Update(ctx context.Context, id string, patch models.PlaylistPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{now()}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, stringArg(patch.Description.Value))
	}
	if patch.Moment.Set {
		sets = append(sets, "moment = ?")
		args = append(args, stringArg(patch.Moment.Value))
	}
	if patch.AgeGroup.Set {
		sets = append(sets, "age_group = ?")
		args = append(args, stringArg(patch.AgeGroup.Value))
	}
	if patch.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, *patch.IsPublic)
	}
	args = append(args, id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "UPDATE playlists SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}

	if patch.Tags != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_tags WHERE playlist_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear playlist tags: %w", err)
		}
		if err := insertTags(ctx, tx, id, *patch.Tags); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist update: %w", err)
	}
	return nil
}

// Delete removes a playlist. Items and tags go with it through ON DELETE CASCADE.
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}

	return nil
}

// AddItem appends an item. Its position comes from the playlist's next_position counter,
// so positions are never reused after a removal.
func (r *PlaylistRepository) AddItem(ctx context.Context, playlistID string, in models.ItemInput) (*models.PlaylistItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	result, err := tx.ExecContext(ctx,
		"UPDATE playlists SET next_position = next_position + 1, updated_at = ? WHERE id = ?",
		ts, playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve item position: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlistID)
	}

	var position int
	if err := tx.QueryRowContext(ctx, "SELECT next_position - 1 FROM playlists WHERE id = ?", playlistID).Scan(&position); err != nil {
		return nil, fmt.Errorf("failed to read item position: %w", err)
	}

	item := &models.PlaylistItem{
		ID:           shared.GenerateID(),
		PlaylistID:   playlistID,
		VideoID:      in.VideoID.String(),
		Title:        strings.TrimSpace(in.Title),
		ThumbnailURL: shared.EmptyToNil(in.ThumbnailURL),
		ChannelName:  shared.EmptyToNil(in.ChannelName),
		Position:     position,
		CreatedAt:    ts,
	}

	query := `
		INSERT INTO playlist_items (id, playlist_id, video_id, title, thumbnail_url, channel_name, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		item.ID,
		item.PlaylistID,
		item.VideoID,
		item.Title,
		stringArg(item.ThumbnailURL),
		stringArg(item.ChannelName),
		item.Position,
		item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert playlist item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit playlist item: %w", err)
	}

	return item, nil
}

// RemoveItem deletes the item only when it belongs to playlistID.
func (r *PlaylistRepository) RemoveItem(ctx context.Context, playlistID, itemID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM playlist_items WHERE id = ? AND playlist_id = ?", itemID, playlistID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist item: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: item %s", shared.ErrNotFound, itemID)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE playlists SET updated_at = ? WHERE id = ?", now(), playlistID); err != nil {
		return fmt.Errorf("failed to touch playlist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item removal: %w", err)
	}
	return nil
}

// Items lists a playlist's items by ascending position.
func (r *PlaylistRepository) Items(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	query := `
		SELECT id, playlist_id, video_id, title, thumbnail_url, channel_name, position, created_at
		FROM playlist_items
		WHERE playlist_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist items: %w", err)
	}
	defer rows.Close()

	items := []models.PlaylistItem{}
	for rows.Next() {
		var (
			item      models.PlaylistItem
			thumbnail sql.NullString
			channel   sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.PlaylistID, &item.VideoID, &item.Title, &thumbnail, &channel, &item.Position, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		item.ThumbnailURL = nullString(thumbnail)
		item.ChannelName = nullString(channel)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// RecentByUser returns up to limit playlists owned by userID, most recently updated first.
// Tags and item counts are not loaded.
func (r *PlaylistRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Playlist, error) {
	query := `
		SELECT ` + playlistColumns + `
		FROM playlists p
		WHERE p.user_id = ?
		ORDER BY p.updated_at DESC, p.sequence DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows, false)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

func (r *PlaylistRepository) tags(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT tag FROM playlist_tags WHERE playlist_id = ? ORDER BY position ASC", playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan playlist tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *PlaylistRepository) tagsForUser(ctx context.Context, userID string) (map[string][]string, error) {
	query := `
		SELECT t.playlist_id, t.tag
		FROM playlist_tags t
		JOIN playlists p ON p.id = t.playlist_id
		WHERE p.user_id = ?
		ORDER BY t.playlist_id, t.position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var playlistID, tag string
		if err := rows.Scan(&playlistID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan playlist tag: %w", err)
		}
		tags[playlistID] = append(tags[playlistID], tag)
	}
	return tags, rows.Err()
}

func insertTags(ctx context.Context, tx *sql.Tx, playlistID string, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO playlist_tags (playlist_id, tag, position) VALUES (?, ?, ?)",
			playlistID, tag, i,
		); err != nil {
			return fmt.Errorf("failed to insert playlist tag %q: %w", tag, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlaylist scans playlistColumns, plus item_count when withCount is set.
func scanPlaylist(row rowScanner, withCount bool) (*models.Playlist, error) {
	var (
		p           models.Playlist
		description sql.NullString
		moment      sql.NullString
		ageGroup    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	dest := []any{&p.ID, &p.Sequence, &p.UserID, &p.Name, &description, &moment, &ageGroup, &p.IsPublic, &p.Saves, &createdAt, &updatedAt}
	if withCount {
		dest = append(dest, &p.ItemCount)
	}

	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	p.Description = nullString(description)
	p.Moment = nullString(moment)
	p.AgeGroup = nullString(ageGroup)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	p.Tags = []string{}

	return &p, nil
}
