package services

import (
	"context"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// ReferenceService serves read-mostly reference data: approved channels and content ratings.
type ReferenceService struct {
	channels ChannelStore
	ratings  RatingStore
}

// NewReferenceService creates a reference data service.
func NewReferenceService(channels ChannelStore, ratings RatingStore) *ReferenceService {
	return &ReferenceService{channels: channels, ratings: ratings}
}

// Channels lists approved channels by name.
func (s *ReferenceService) Channels(ctx context.Context) ([]models.ApprovedChannel, error) {
	channels, err := s.channels.List(ctx)
	if err != nil {
		return nil, shared.Persistence("list approved channels", err)
	}
	return channels, nil
}

// Ratings finds screening verdicts whose title contains title.
func (s *ReferenceService) Ratings(ctx context.Context, title string) ([]models.ContentRating, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.Invalid("title", "title is required")
	}
	ratings, err := s.ratings.SearchByTitle(ctx, title)
	if err != nil {
		return nil, shared.Persistence("search content ratings", err)
	}
	return ratings, nil
}
