package services

import (
	"context"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// FollowStore persists follow relations.
type FollowStore interface {
	Add(ctx context.Context, followerID, username string) error
	Remove(ctx context.Context, followerID, username string) error
	List(ctx context.Context, followerID string) ([]string, error)
}

// FollowService manages which parents the caller follows.
type FollowService struct {
	store FollowStore
}

// NewFollowService creates a follow service.
func NewFollowService(store FollowStore) *FollowService {
	return &FollowService{store: store}
}

// Following lists the usernames the caller follows.
func (s *FollowService) Following(ctx context.Context, claims *session.Claims) ([]string, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}
	names, err := s.store.List(ctx, claims.ID)
	if err != nil {
		return nil, shared.Persistence("list follows", err)
	}
	return names, nil
}

// Follow adds username to the caller's follows. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, claims *session.Claims, in models.FollowInput) error {
	if err := requireIdentity(claims); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.Add(ctx, claims.ID, strings.TrimSpace(in.Username)); err != nil {
		return shared.Persistence("follow", err)
	}
	return nil
}

// Unfollow removes username from the caller's follows.
func (s *FollowService) Unfollow(ctx context.Context, claims *session.Claims, in models.FollowInput) error {
	if err := requireIdentity(claims); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, claims.ID, strings.TrimSpace(in.Username)); err != nil {
		return shared.Persistence("unfollow", err)
	}
	return nil
}
