package services

import (
	"context"
	"strings"
	"time"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/charmbracelet/log"
)

// CheckInWindow is how long a dashboard check-in suppresses the next one.
const CheckInWindow = 24 * time.Hour

// CheckIn is a queued request to e-mail a parent after a dashboard check-in.
type CheckIn struct {
	FeedbackID string
	UserID     string
	Email      string
	Name       string
}

// Enqueuer accepts check-in jobs without blocking. It reports false when the job was dropped.
type Enqueuer interface {
	Enqueue(job CheckIn) bool
}

// FeedbackService records parent feedback and schedules check-in e-mails.
type FeedbackService struct {
	store  FeedbackStore
	queue  Enqueuer
	logger *log.Logger
	now    func() time.Time
}

// NewFeedbackService creates a feedback service. queue may be nil to disable check-in e-mails.
func NewFeedbackService(store FeedbackStore, queue Enqueuer, logger *log.Logger) *FeedbackService {
	return &FeedbackService{store: store, queue: queue, logger: logger, now: time.Now}
}

// Submit records one feedback entry for the caller.
// A dashboard check-in within [CheckInWindow] of a previous one is acknowledged and skipped.
func (s *FeedbackService) Submit(ctx context.Context, claims *session.Claims, in models.FeedbackInput) (*models.FeedbackResult, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}
	in.Trigger = strings.TrimSpace(in.Trigger)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	checkIn := in.Trigger == models.TriggerDashboardCheck
	if checkIn {
		since := s.now().Add(-CheckInWindow).UTC()
		exists, err := s.store.ExistsSince(ctx, claims.ID, in.Trigger, since)
		if err != nil {
			return nil, shared.Persistence("check recent feedback", err)
		}
		if exists {
			return &models.FeedbackResult{OK: true, Skipped: true}, nil
		}
	}

	f := &models.Feedback{
		UserID:  claims.ID,
		Trigger: in.Trigger,
		Rating:  in.Rating,
		Comment: shared.TrimOptional(in.Comment),
	}
	if in.VideoID != nil && *in.VideoID != "" {
		id := in.VideoID.String()
		f.VideoID = &id
	}

	if err := s.store.Create(ctx, f); err != nil {
		return nil, shared.Persistence("create feedback", err)
	}

	if checkIn && claims.Email != "" && s.queue != nil {
		job := CheckIn{FeedbackID: f.ID, UserID: claims.ID, Email: claims.Email, Name: claims.Name}
		if !s.queue.Enqueue(job) {
			s.logger.Warn("check-in queue full, dropping e-mail", "user", claims.ID)
		}
	}

	return &models.FeedbackResult{OK: true}, nil
}
