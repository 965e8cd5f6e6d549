package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/charmbracelet/log"
)

// PlaylistService implements playlist CRUD for the signed-in parent.
type PlaylistService struct {
	store  PlaylistStore
	logger *log.Logger
}

// NewPlaylistService creates a playlist service over store.
func NewPlaylistService(store PlaylistStore, logger *log.Logger) *PlaylistService {
	return &PlaylistService{store: store, logger: logger}
}

// Create validates and persists a new playlist owned by the caller.
func (s *PlaylistService) Create(ctx context.Context, claims *session.Claims, in models.PlaylistInput) (*models.Playlist, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, claims.ID, in)
	if err != nil {
		return nil, shared.Persistence("create playlist", err)
	}
	s.logger.Debug("playlist created", "id", p.ID, "user", claims.ID)
	return p, nil
}

// ListMine returns the caller's playlists, newest first.
func (s *PlaylistService) ListMine(ctx context.Context, claims *session.Claims) ([]models.Playlist, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}

	playlists, err := s.store.ListByUser(ctx, claims.ID)
	if err != nil {
		return nil, shared.Persistence("list playlists", err)
	}
	return playlists, nil
}

// Get returns a playlist with its tags and ordered items. No session is required.
func (s *PlaylistService) Get(ctx context.Context, id string) (*models.PlaylistDetail, error) {
	detail, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, shared.Persistence("get playlist", err)
	}
	return detail, nil
}

// Update applies a partial update to a playlist the caller owns.
// A malformed patch is rejected before ownership is checked.
func (s *PlaylistService) Update(ctx context.Context, claims *session.Claims, id string, patch models.PlaylistPatch) error {
	if err := requireIdentity(claims); err != nil {
		return err
	}
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := s.authorize(ctx, claims, id); err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, patch); err != nil {
		return shared.Persistence("update playlist", err)
	}
	return nil
}

// Delete removes a playlist the caller owns together with its items and tags.
func (s *PlaylistService) Delete(ctx context.Context, claims *session.Claims, id string) error {
	if err := s.authorize(ctx, claims, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return shared.Persistence("delete playlist", err)
	}
	s.logger.Debug("playlist deleted", "id", id, "user", claims.ID)
	return nil
}

// AddItem appends a video to a playlist the caller owns.
func (s *PlaylistService) AddItem(ctx context.Context, claims *session.Claims, id string, in models.ItemInput) (*models.PlaylistItem, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, claims, id); err != nil {
		return nil, err
	}

	item, err := s.store.AddItem(ctx, id, in)
	if err != nil {
		return nil, shared.Persistence("add playlist item", err)
	}
	return item, nil
}

// RemoveItem deletes one item from a playlist the caller owns.
func (s *PlaylistService) RemoveItem(ctx context.Context, claims *session.Claims, id, itemID string) error {
	if err := requireIdentity(claims); err != nil {
		return err
	}
	if strings.TrimSpace(itemID) == "" {
		return shared.Invalid("item_id", "item_id is required")
	}
	if err := s.authorize(ctx, claims, id); err != nil {
		return err
	}

	if err := s.store.RemoveItem(ctx, id, itemID); err != nil {
		return shared.Persistence("remove playlist item", err)
	}
	return nil
}

// authorize requires a session and ownership of playlist id; not-owned reads as not found.
func (s *PlaylistService) authorize(ctx context.Context, claims *session.Claims, id string) error {
	if err := requireIdentity(claims); err != nil {
		return err
	}

	ok, err := VerifyOwnership(ctx, s.store, id, claims.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	return nil
}
