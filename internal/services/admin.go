package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/formatter"
	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	// DigestWindow is how far back the feedback digest looks.
	DigestWindow = 7 * 24 * time.Hour
	// digestCommentLimit caps the comments quoted in a digest.
	digestCommentLimit = 10
)

// ApprovedChannels is the built-in list of verified channels.
var ApprovedChannels = []models.ApprovedChannel{
	{ChannelName: "Ms. Rachel - Songs for Littles", Platform: "YouTube", AgeMin: 0, AgeMax: 3},
	{ChannelName: "Cocomelon - Nursery Rhymes", Platform: "YouTube", AgeMin: 0, AgeMax: 3},
	{ChannelName: "Bluey", Platform: "Disney+", AgeMin: 3, AgeMax: 7},
	{ChannelName: "Cosmic Kids Yoga", Platform: "YouTube", AgeMin: 2, AgeMax: 6},
	{ChannelName: "Sesame Street", Platform: "YouTube", AgeMin: 2, AgeMax: 5},
	{ChannelName: "Daniel Tiger's Neighborhood", Platform: "PBS Kids", AgeMin: 2, AgeMax: 4},
	{ChannelName: "Numberblocks", Platform: "Netflix", AgeMin: 2, AgeMax: 5},
	{ChannelName: "Pinkfong Baby Shark", Platform: "YouTube", AgeMin: 0, AgeMax: 3},
	{ChannelName: "Super Simple Songs - Kids Songs", Platform: "YouTube", AgeMin: 0, AgeMax: 4},
	{ChannelName: "Kids Learning Tube", Platform: "YouTube", AgeMin: 3, AgeMax: 6},
	{ChannelName: "Blippi - Educational Videos for Kids", Platform: "YouTube", AgeMin: 2, AgeMax: 5},
	{ChannelName: "Little Baby Bum - Nursery Rhymes & Kids Songs", Platform: "YouTube", AgeMin: 0, AgeMax: 3},
	{ChannelName: "Peppa Pig - Official Channel", Platform: "YouTube", AgeMin: 2, AgeMax: 5},
	{ChannelName: "PBS Kids", Platform: "PBS Kids", AgeMin: 2, AgeMax: 6},
	{ChannelName: "Kiddie Academy", Platform: "YouTube", AgeMin: 2, AgeMax: 5},
	{ChannelName: "Dave and Ava - Nursery Rhymes and Baby Songs", Platform: "YouTube", AgeMin: 0, AgeMax: 3},
	{ChannelName: "Mother Goose Club Playhouse", Platform: "YouTube", AgeMin: 0, AgeMax: 4},
	{ChannelName: "GEO Kids", Platform: "YouTube", AgeMin: 2, AgeMax: 6},
	{ChannelName: "Learn English Kids - British Council", Platform: "YouTube", AgeMin: 3, AgeMax: 6},
	{ChannelName: "Peekaboo Kidz", Platform: "YouTube", AgeMin: 3, AgeMax: 6},
}

// ChannelStore persists approved channels.
type ChannelStore interface {
	Upsert(ctx context.Context, channels []models.ApprovedChannel) error
	List(ctx context.Context) ([]models.ApprovedChannel, error)
}

// RatingStore persists content screening verdicts.
type RatingStore interface {
	Upsert(ctx context.Context, title, source string, result models.ScreeningResult) (*models.ContentRating, error)
	SearchByTitle(ctx context.Context, q string) ([]models.ContentRating, error)
}

// ScreenOutcome is a stored verdict alongside the classifier's raw result.
type ScreenOutcome struct {
	OK     bool                    `json:"ok"`
	Data   *models.ContentRating   `json:"data"`
	Result *models.ScreeningResult `json:"result"`
}

// DigestOutcome reports a digest run.
type DigestOutcome struct {
	OK      bool   `json:"ok"`
	Sent    int    `json:"sent,omitempty"`
	Message string `json:"message,omitempty"`
}

// AdminService implements the operator tasks: channel seeding, AI screening and the feedback digest.
type AdminService struct {
	channels   ChannelStore
	ratings    RatingStore
	feedback   FeedbackStore
	classifier Classifier
	mailer     Mailer
	adminTo    string
	logger     *log.Logger
	now        func() time.Time
}

// AdminDeps groups the collaborators of [AdminService]. Classifier may be nil when screening is not configured.
type AdminDeps struct {
	Channels   ChannelStore
	Ratings    RatingStore
	Feedback   FeedbackStore
	Classifier Classifier
	Mailer     Mailer
	AdminTo    string
}

// NewAdminService creates an admin service.
func NewAdminService(deps AdminDeps, logger *log.Logger) *AdminService {
	return &AdminService{
		channels:   deps.Channels,
		ratings:    deps.Ratings,
		feedback:   deps.Feedback,
		classifier: deps.Classifier,
		mailer:     deps.Mailer,
		adminTo:    deps.AdminTo,
		logger:     logger,
		now:        time.Now,
	}
}

// SeedChannels upserts [ApprovedChannels] and returns how many were written.
func (s *AdminService) SeedChannels(ctx context.Context) (int, error) {
	if err := s.channels.Upsert(ctx, ApprovedChannels); err != nil {
		return 0, shared.Persistence("seed channels", err)
	}
	s.logger.Info("approved channels seeded", "count", len(ApprovedChannels))
	return len(ApprovedChannels), nil
}

// Screen classifies content and records the verdict under [ScreeningSource].
func (s *AdminService) Screen(ctx context.Context, req models.ScreeningRequest) (*ScreenOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.classifier == nil {
		return nil, fmt.Errorf("%w: classifier is not configured", shared.ErrServiceUnavailable)
	}

	result, err := s.classifier.Classify(ctx, req)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratings.Upsert(ctx, strings.TrimSpace(req.Title), ScreeningSource, *result)
	if err != nil {
		return nil, shared.Persistence("store screening verdict", err)
	}
	s.logger.Info("content screened", "title", rating.Title, "approved", result.Approved, "score", result.Score)
	return &ScreenOutcome{OK: true, Data: rating, Result: result}, nil
}

// Digest mails a summary of unsent feedback from the last [DigestWindow] and marks it sent.
func (s *AdminService) Digest(ctx context.Context) (*DigestOutcome, error) {
	rows, err := s.feedback.UnsentSince(ctx, s.now().Add(-DigestWindow).UTC())
	if err != nil {
		return nil, shared.Persistence("load unsent feedback", err)
	}
	if len(rows) == 0 {
		return &DigestOutcome{OK: true, Message: "No unsent feedback"}, nil
	}

	digest := BuildDigest(rows)
	msg := Message{
		To:      s.adminTo,
		Subject: formatter.DigestSubject(digest),
		Text:    formatter.DigestText(digest),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send digest: %w", err)
	}

	if err := s.feedback.MarkSent(ctx, digest.IDs...); err != nil {
		return nil, shared.Persistence("mark feedback sent", err)
	}
	s.logger.Info("feedback digest sent", "entries", digest.Total, "average", digest.Average)
	return &DigestOutcome{OK: true, Sent: digest.Total}, nil
}

// BuildDigest aggregates feedback rows; rows are expected newest first.
func BuildDigest(rows []models.Feedback) models.FeedbackDigest {
	d := models.FeedbackDigest{
		Total:    len(rows),
		Average:  "N/A",
		Comments: []string{},
		IDs:      make([]string, 0, len(rows)),
	}

	sum := 0
	for _, f := range rows {
		d.IDs = append(d.IDs, f.ID)
		if f.Rating != nil {
			d.Rated++
			sum += *f.Rating
			if *f.Rating >= 1 && *f.Rating <= 5 {
				d.RatingCounts[*f.Rating-1]++
			}
		}
		if f.Comment != nil && *f.Comment != "" && len(d.Comments) < digestCommentLimit {
			d.Comments = append(d.Comments, fmt.Sprintf("%q (%s)", *f.Comment, f.Trigger))
		}
	}
	if d.Rated > 0 {
		d.Average = fmt.Sprintf("%.1f", float64(sum)/float64(d.Rated))
	}
	return d
}
