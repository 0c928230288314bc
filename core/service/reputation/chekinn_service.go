package reputation

import (
	"context"
	"time"

	"chekinn_server/core/domain"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// Status is the only reputation data ever surfaced to end users.
type Status struct {
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Service wraps the engine with persistence. Tracking is fire-and-forget:
// failures are logged and swallowed so the caller's primary flow can never be
// broken by the reputation mechanism.
type Service struct {
	engine *Engine
	repo   domain.ReputationRepository
	log    *logger.Logger
}

// NewService creates a reputation service.
func NewService(engine *Engine, repo domain.ReputationRepository) *Service {
	return &Service{
		engine: engine,
		repo:   repo,
		log:    logger.Default().WithField("component", "reputation"),
	}
}

// Track applies an action to the user's state. Best-effort by contract: it
// returns nothing and cannot fail the caller.
func (s *Service) Track(ctx context.Context, userID uuid.UUID, action domain.ReputationAction, meta *ActionMetadata) {
	now := time.Now().UTC()

	err := s.repo.Mutate(ctx, userID, func(state *domain.ReputationState) error {
		s.engine.Apply(state, action, meta, now)
		return nil
	})
	if err != nil {
		s.log.WithError(err).
			WithField("user_id", userID.String()).
			Warn("reputation update dropped: %s", action)
	}
}

// Status returns the unlock state for a user. Users without a state record
// are simply locked.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*Status, error) {
	state, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return &Status{}, nil
	}
	return &Status{Unlocked: state.Unlocked, UnlockedAt: state.UnlockedAt}, nil
}

// RunDecaySweep enqueues decay checks for users inactive past the grace
// period. Called by the worker scheduler, never by user requests.
func (s *Service) RunDecaySweep(ctx context.Context, cutoff time.Time, limit int, publish func(ctx context.Context, userID uuid.UUID) (string, error)) {
	users, err := s.repo.ListInactiveSince(ctx, cutoff, limit)
	if err != nil {
		s.log.WithError(err).Warn("decay sweep: listing inactive users failed")
		return
	}

	for _, userID := range users {
		if _, err := publish(ctx, userID); err != nil {
			s.log.WithError(err).
				WithField("user_id", userID.String()).
				Warn("decay sweep: enqueue failed")
		}
	}

	if len(users) > 0 {
		s.log.Info("decay sweep enqueued %d users", len(users))
	}
}
