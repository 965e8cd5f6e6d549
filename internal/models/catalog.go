package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// Video is one upstream catalog entry. The entry's JSON is kept as served, so fields
// this service does not know about pass through; only parentRating is read, for ranking.
type Video struct {
	Raw          json.RawMessage
	ParentRating float64
}

// NewVideo wraps raw and reads its parentRating, which may be a number or a numeric
// string. Entries without a usable rating rank as 0.
func NewVideo(raw json.RawMessage) Video {
	v := Video{Raw: raw}

	var fields struct {
		ParentRating any `json:"parentRating"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return v
	}

	var rating float64
	switch r := fields.ParentRating.(type) {
	case float64:
		rating = r
	case string:
		rating, _ = strconv.ParseFloat(strings.TrimSpace(r), 64)
	}
	if !math.IsNaN(rating) && !math.IsInf(rating, 0) {
		v.ParentRating = rating
	}
	return v
}

// MarshalJSON writes the entry exactly as it was received.
func (v Video) MarshalJSON() ([]byte, error) {
	if len(v.Raw) == 0 {
		return []byte("null"), nil
	}
	return v.Raw, nil
}

// VideoFilter narrows a catalog listing. Empty fields are not sent upstream.
type VideoFilter struct {
	Category string
	Tag      string
	AgeMin   string
	AgeMax   string
}

// ApprovedChannel is a verified channel with its recommended age range.
type ApprovedChannel struct {
	ChannelName string `json:"channel_name"`
	Platform    string `json:"platform"`
	AgeMin      int    `json:"age_min"`
	AgeMax      int    `json:"age_max"`
}

// ContentRating is a screening verdict for a title from one source.
type ContentRating struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	AIApproved *bool     `json:"ai_approved"`
	AIScore    *float64  `json:"ai_score"`
	AINotes    *string   `json:"ai_notes"`
	ScrapedAt  time.Time `json:"scraped_at"`
}

// ScreeningRequest describes content submitted for classification.
type ScreeningRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ChannelName string `json:"channelName"`
	AgeMin      *int   `json:"ageMin"`
	AgeMax      *int   `json:"ageMax"`
}

// Validate requires a title.
func (in ScreeningRequest) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return shared.Invalid("title", "title is required")
	}
	return nil
}

// ScreeningResult is the classifier verdict.
type ScreeningResult struct {
	Approved bool    `json:"approved"`
	Score    float64 `json:"score"`
	Notes    string  `json:"notes"`
}
