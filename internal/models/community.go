package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// CommunityPost is a testimonial shared on the community feed.
type CommunityPost struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Moment    *string         `json:"moment"`
	AgeGroup  *string         `json:"age_group"`
	Resources json.RawMessage `json:"resources"`
	CreatedAt time.Time       `json:"created_at"`
}

// PostInput is the create payload for a community post.
type PostInput struct {
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Moment    *string         `json:"moment"`
	AgeGroup  *string         `json:"age_group"`
	Resources json.RawMessage `json:"resources"`
}

// Validate requires a title and a body.
func (in PostInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return shared.Invalid("title", "title and body are required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return shared.Invalid("body", "title and body are required")
	}
	return nil
}

// ResourceList returns Resources when it is a JSON array, and "[]" otherwise.
func (in PostInput) ResourceList() json.RawMessage {
	var probe []json.RawMessage
	if len(in.Resources) == 0 || json.Unmarshal(in.Resources, &probe) != nil {
		return json.RawMessage("[]")
	}
	return in.Resources
}

// FollowInput names the parent to follow or unfollow.
type FollowInput struct {
	Username string `json:"username"`
}

// Validate requires a username.
func (in FollowInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return shared.Invalid("username", "username is required")
	}
	return nil
}

// ConcernsInput replaces a parent's screen-time concerns.
type ConcernsInput struct {
	Concerns []string `json:"concerns"`
}

// Validate requires at least one non-blank concern.
func (in ConcernsInput) Validate() error {
	for _, c := range in.Concerns {
		if strings.TrimSpace(c) != "" {
			return nil
		}
	}
	return shared.Invalid("concerns", "No concerns provided")
}
