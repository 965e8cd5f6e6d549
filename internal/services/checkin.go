package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/Mohakgarg5/littlescreen-v2/internal/formatter"
	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/charmbracelet/log"
)

// recentPlaylistLimit is how many playlists a check-in e-mail lists.
const recentPlaylistLimit = 3

// RecentPlaylists lists a parent's most recently updated playlists.
type RecentPlaylists interface {
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Playlist, error)
}

// CheckInSender composes and sends check-in e-mails. Its Send method is the notification
// dispatcher's handler.
type CheckInSender struct {
	playlists RecentPlaylists
	concerns  ConcernStore
	feedback  FeedbackStore
	mailer    Mailer
	logger    *log.Logger
	pick      func(n int) int
}

// NewCheckInSender wires a sender over the given stores and mailer.
func NewCheckInSender(playlists RecentPlaylists, concerns ConcernStore, feedback FeedbackStore, mailer Mailer, logger *log.Logger) *CheckInSender {
	return &CheckInSender{
		playlists: playlists,
		concerns:  concerns,
		feedback:  feedback,
		mailer:    mailer,
		logger:    logger,
		pick:      rand.IntN,
	}
}

// Compose builds the check-in e-mail for job.
func (s *CheckInSender) Compose(ctx context.Context, job CheckIn) (Message, error) {
	playlists, err := s.playlists.RecentByUser(ctx, job.UserID, recentPlaylistLimit)
	if err != nil {
		return Message{}, fmt.Errorf("failed to load recent playlists: %w", err)
	}
	concerns, err := s.concerns.List(ctx, job.UserID)
	if err != nil {
		return Message{}, fmt.Errorf("failed to load concerns: %w", err)
	}

	content := formatter.CheckIn{Name: job.Name, Playlists: playlists}
	if len(concerns) > 0 {
		content.ConcernLabel, content.Tip = ConcernTip(concerns[s.pick(len(concerns))])
	}

	return Message{
		To:      job.Email,
		Subject: formatter.CheckInSubject(content),
		Text:    formatter.CheckInText(content),
	}, nil
}

// Send composes and mails the check-in, then marks the feedback row as e-mailed.
func (s *CheckInSender) Send(ctx context.Context, job CheckIn) error {
	msg, err := s.Compose(ctx, job)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send check-in: %w", err)
	}
	if job.FeedbackID != "" {
		if err := s.feedback.MarkSent(ctx, job.FeedbackID); err != nil {
			return fmt.Errorf("failed to mark check-in sent: %w", err)
		}
	}
	s.logger.Info("check-in sent", "user", job.UserID)
	return nil
}
