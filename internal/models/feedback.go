package models

import (
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// Feedback triggers emitted by the client.
const (
	TriggerDashboardCheck = "dashboard_check"
	TriggerVideoEnds      = "video_ends"
)

// Feedback is a single feedback entry.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	VideoID   *string   `json:"video_id"`
	Trigger   string    `json:"trigger"`
	Rating    *int      `json:"rating"`
	Comment   *string   `json:"comment"`
	EmailSent bool      `json:"email_sent"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackInput is the submit payload.
type FeedbackInput struct {
	VideoID *FlexibleID `json:"video_id"`
	Trigger string      `json:"trigger"`
	Rating  *int        `json:"rating"`
	Comment *string     `json:"comment"`
}

// Validate requires a trigger and a 1-5 rating when one is given.
func (in FeedbackInput) Validate() error {
	if strings.TrimSpace(in.Trigger) == "" {
		return shared.Invalid("trigger", "trigger is required")
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return shared.Invalid("rating", "rating must be between 1 and 5")
	}
	return nil
}

// FeedbackResult acknowledges a submission; Skipped marks a deduplicated check-in.
type FeedbackResult struct {
	OK      bool `json:"ok"`
	Skipped bool `json:"skipped,omitempty"`
}

// FeedbackDigest summarizes unsent feedback for the admin report.
type FeedbackDigest struct {
	Total        int      `json:"total"`
	Rated        int      `json:"rated"`
	Average      string   `json:"average"`
	RatingCounts [5]int   `json:"rating_counts"`
	Comments     []string `json:"comments"`
	IDs          []string `json:"-"`
}
