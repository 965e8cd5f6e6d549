package services

import (
	"context"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// communityLimit is how many posts the community feed returns.
const communityLimit = 50

// CommunityStore persists community posts.
type CommunityStore interface {
	Create(ctx context.Context, post *models.CommunityPost) error
	Recent(ctx context.Context, limit int) ([]models.CommunityPost, error)
}

// CommunityService manages the community feed.
type CommunityService struct {
	store CommunityStore
}

// NewCommunityService creates a community service.
func NewCommunityService(store CommunityStore) *CommunityService {
	return &CommunityService{store: store}
}

// Recent returns the newest posts.
func (s *CommunityService) Recent(ctx context.Context) ([]models.CommunityPost, error) {
	posts, err := s.store.Recent(ctx, communityLimit)
	if err != nil {
		return nil, shared.Persistence("list community posts", err)
	}
	return posts, nil
}

// Post publishes a post under the caller's name.
func (s *CommunityService) Post(ctx context.Context, claims *session.Claims, in models.PostInput) (*models.CommunityPost, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = "Parent"
	}
	post := &models.CommunityPost{
		UserID:    claims.ID,
		UserName:  name,
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),
		Moment:    shared.EmptyToNil(in.Moment),
		AgeGroup:  shared.EmptyToNil(in.AgeGroup),
		Resources: in.ResourceList(),
	}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, shared.Persistence("create community post", err)
	}
	return post, nil
}
