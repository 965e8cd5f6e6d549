package services

import (
	"context"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// PlaylistStore is the persistence the playlist service needs.
type PlaylistStore interface {
	Create(ctx context.Context, userID string, in models.PlaylistInput) (*models.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]models.Playlist, error)
	Get(ctx context.Context, id string) (*models.PlaylistDetail, error)
	OwnerOf(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id string, patch models.PlaylistPatch) error
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, playlistID string, in models.ItemInput) (*models.PlaylistItem, error)
	RemoveItem(ctx context.Context, playlistID, itemID string) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Playlist, error)
}

// FeedbackStore is the persistence the feedback and digest services need.
type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) error
	ExistsSince(ctx context.Context, userID, trigger string, since time.Time) (bool, error)
	UnsentSince(ctx context.Context, since time.Time) ([]models.Feedback, error)
	MarkSent(ctx context.Context, ids ...string) error
}

// ConcernStore persists parents' screen-time concerns.
type ConcernStore interface {
	Replace(ctx context.Context, userID string, concerns []string) error
	List(ctx context.Context, userID string) ([]string, error)
}

// Mailer sends a single e-mail message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message is an outbound e-mail.
type Message struct {
	To      string
	Subject string
	Text    string
}

// requireIdentity rejects a missing session before any data access.
func requireIdentity(claims *session.Claims) error {
	if claims == nil || claims.ID == "" {
		return shared.ErrNotAuthenticated
	}
	return nil
}
