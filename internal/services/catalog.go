package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/charmbracelet/log"
)

// MaxVideos caps the catalog listing.
const MaxVideos = 500

const videosPath = "/api/videos"

// CatalogService lists the upstream video catalog, best rated first.
type CatalogService struct {
	api    *APIService
	logger *log.Logger
}

// NewCatalogService creates a catalog aggregator over api.
func NewCatalogService(api *APIService, logger *log.Logger) *CatalogService {
	return &CatalogService{api: api, logger: logger}
}

// ListVideos fetches the filtered catalog, sorts it by parent rating and caps it at [MaxVideos].
//
// Upstream failures degrade to an empty list; only a cancelled ctx returns an error.
func (s *CatalogService) ListVideos(ctx context.Context, filter models.VideoFilter) ([]models.Video, error) {
	resp, err := s.api.Get(ctx, videosPath+query(filter), nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("catalog request failed", "error", err)
		return []models.Video{}, nil
	}
	if !resp.OK() {
		s.logger.Warn("catalog request rejected", "status", resp.StatusCode)
		return []models.Video{}, nil
	}

	videos := decodeVideos(resp.Body)
	if videos == nil {
		s.logger.Warn("catalog reply is not a video list")
		return []models.Video{}, nil
	}

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ParentRating > videos[j].ParentRating
	})
	if len(videos) > MaxVideos {
		videos = videos[:MaxVideos]
	}
	return videos, nil
}

// decodeVideos accepts a bare array or {"videos": [...]} and keeps every element.
// It returns nil when body has neither shape.
func decodeVideos(body []byte) []models.Video {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var wrapped struct {
			Videos []json.RawMessage `json:"videos"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.Videos == nil {
			return nil
		}
		raw = wrapped.Videos
	}

	videos := make([]models.Video, 0, len(raw))
	for _, r := range raw {
		videos = append(videos, models.NewVideo(r))
	}
	return videos
}

func query(f models.VideoFilter) string {
	v := url.Values{}
	for key, value := range map[string]string{
		"category": f.Category,
		"tag":      f.Tag,
		"ageMin":   f.AgeMin,
		"ageMax":   f.AgeMax,
	} {
		if value != "" {
			v.Set(key, value)
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
