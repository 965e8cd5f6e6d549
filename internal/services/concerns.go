package services

import (
	"context"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// concernLabels maps known concern codes to display labels.
var concernLabels = map[string]string{
	"physical_activity": "Physical activity",
	"social_connection": "Social connection",
	"mental_health":     "Mental health",
	"online_safety":     "Online safety",
	"schoolwork":        "Schoolwork",
	"sleep":             "Sleep",
}

var concernTips = map[string]string{
	"physical_activity": "Try balancing screen time with an active break. Even 10 minutes of movement makes a difference.",
	"social_connection": "After screen time, ask your child one question about what they watched. It sparks real conversation.",
	"mental_health":     "Calm content before bed (like nature videos or soft music) can help with emotional regulation.",
	"online_safety":     "Co-watching occasionally helps you see exactly what your child is exposed to.",
	"schoolwork":        "Educational playlists tagged 'learning' can make screen time feel purposeful.",
	"sleep":             "A screen-free wind-down of 30 minutes before bed makes a measurable difference in sleep quality.",
}

const defaultTip = "Keep up the intentional parenting. It matters more than you know."

// ConcernTip returns the display label and tip for a concern code.
// Unknown codes are labelled with the code itself and get a general tip.
func ConcernTip(concern string) (label, tip string) {
	label, ok := concernLabels[concern]
	if !ok {
		label = concern
	}
	tip, ok = concernTips[concern]
	if !ok {
		tip = defaultTip
	}
	return label, tip
}

// ConcernService manages a parent's screen-time concerns.
type ConcernService struct {
	store ConcernStore
}

// NewConcernService creates a concern service.
func NewConcernService(store ConcernStore) *ConcernService {
	return &ConcernService{store: store}
}

// Replace swaps the caller's concerns for the given set.
func (s *ConcernService) Replace(ctx context.Context, claims *session.Claims, in models.ConcernsInput) error {
	if err := requireIdentity(claims); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.Replace(ctx, claims.ID, in.Concerns); err != nil {
		return shared.Persistence("replace concerns", err)
	}
	return nil
}

// List returns the caller's concerns.
func (s *ConcernService) List(ctx context.Context, claims *session.Claims) ([]string, error) {
	if err := requireIdentity(claims); err != nil {
		return nil, err
	}
	concerns, err := s.store.List(ctx, claims.ID)
	if err != nil {
		return nil, shared.Persistence("list concerns", err)
	}
	return concerns, nil
}
