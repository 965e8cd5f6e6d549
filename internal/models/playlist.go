package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// Playlist is a named, tagged collection of videos owned by one identity.
type Playlist struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"-"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Moment      *string   `json:"moment"`
	AgeGroup    *string   `json:"age_group"`
	IsPublic    bool      `json:"is_public"`
	Saves       int       `json:"saves"`
	Tags        []string  `json:"tags"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistDetail is a playlist with its items ordered by position.
type PlaylistDetail struct {
	Playlist
	Items []PlaylistItem `json:"items"`
}

// PlaylistItem is one video in a playlist. Positions are append-only and may have gaps.
type PlaylistItem struct {
	ID           string    `json:"id"`
	PlaylistID   string    `json:"playlist_id"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	ChannelName  *string   `json:"channel_name"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlaylistInput is the create payload.
type PlaylistInput struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Moment      *string  `json:"moment"`
	AgeGroup    *string  `json:"age_group"`
	IsPublic    *bool    `json:"is_public"`
	Tags        []string `json:"tags"`
}

// Validate requires a non-blank name.
func (in PlaylistInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.Invalid("name", "Name is required")
	}
	return nil
}

// Normalize trims text fields and normalizes tags in place.
func (in *PlaylistInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = shared.TrimOptional(in.Description)
	in.Moment = shared.EmptyToNil(in.Moment)
	in.AgeGroup = shared.EmptyToNil(in.AgeGroup)
	in.Tags = shared.NormalizeTags(in.Tags)
}

// PlaylistPatch is a partial update: nil fields are left unchanged.
//
// Optional text fields distinguish an absent key from an explicit null, which clears the column.
type PlaylistPatch struct {
	Name        *string   `json:"name"`
	Description Optional  `json:"description"`
	Moment      Optional  `json:"moment"`
	AgeGroup    Optional  `json:"age_group"`
	IsPublic    *bool     `json:"is_public"`
	Tags        *[]string `json:"tags"`
}

// Validate rejects a name that is present but blank.
func (p PlaylistPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return shared.Invalid("name", "Name cannot be empty")
	}
	return nil
}

// Normalize trims text fields and normalizes tags in place.
func (p *PlaylistPatch) Normalize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Description.Set {
		p.Description.Value = shared.TrimOptional(p.Description.Value)
	}
	if p.Moment.Set {
		p.Moment.Value = shared.EmptyToNil(p.Moment.Value)
	}
	if p.AgeGroup.Set {
		p.AgeGroup.Value = shared.EmptyToNil(p.AgeGroup.Value)
	}
	if p.Tags != nil {
		tags := shared.NormalizeTags(*p.Tags)
		p.Tags = &tags
	}
}

// Empty reports whether the patch changes no fields.
func (p PlaylistPatch) Empty() bool {
	return p.Name == nil && !p.Description.Set && !p.Moment.Set && !p.AgeGroup.Set && p.IsPublic == nil && p.Tags == nil
}

// Optional is a nullable string that remembers whether it appeared in the payload.
type Optional struct {
	Set   bool
	Value *string
}

func (o *Optional) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// ItemInput is the add-item payload.
type ItemInput struct {
	VideoID      FlexibleID `json:"video_id"`
	Title        string     `json:"title"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	ChannelName  *string    `json:"channel_name"`
}

// Validate requires a content id and a title.
func (in ItemInput) Validate() error {
	if in.VideoID == "" {
		return shared.Invalid("video_id", "video_id and title are required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return shared.Invalid("title", "video_id and title are required")
	}
	return nil
}
