package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReputationAction is a score-mutating event kind.
type ReputationAction string

const (
	ActionMessageSent     ReputationAction = "message_sent"
	ActionQualityResponse ReputationAction = "quality_response"
	ActionProfileComplete ReputationAction = "profile_complete"
	ActionConnectionMade  ReputationAction = "connection_made"
	ActionDecayCheck      ReputationAction = "decay_check"
	ActionMisuse          ReputationAction = "misuse"
)

// ReputationState holds the four decaying scores for one user plus the
// Undercurrents unlock latch. Created lazily on first action; mutated only
// through the reputation engine's transition function.
type ReputationState struct {
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Impact         float64    `json:"impact" db:"impact"`
	ThoughtQuality float64    `json:"thought_quality" db:"thought_quality"`
	Discretion     float64    `json:"discretion" db:"discretion"`
	Pull           float64    `json:"pull" db:"pull"`
	LastActiveAt   time.Time  `json:"last_active_at" db:"last_active_at"`
	FrozenUntil    *time.Time `json:"frozen_until,omitempty" db:"frozen_until"`
	Unlocked       bool       `json:"unlocked" db:"unlocked"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty" db:"unlocked_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Total is the combined score checked against the unlock threshold.
func (s *ReputationState) Total() float64 {
	return s.Impact + s.ThoughtQuality + s.Discretion + s.Pull
}

// IsFrozen reports whether score mutations are suspended at the given time.
func (s *ReputationState) IsFrozen(now time.Time) bool {
	return s.FrozenUntil != nil && now.Before(*s.FrozenUntil)
}

// NewReputationState returns the zero-score state for a user.
func NewReputationState(userID uuid.UUID, now time.Time) *ReputationState {
	return &ReputationState{
		UserID:       userID,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReputationRepository persists per-user reputation state. Implementations
// must serialize concurrent updates for the same user (row-level locking or
// equivalent), since the transition function is read-modify-write.
type ReputationRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*ReputationState, error)
	// Mutate loads (or lazily creates) the state under a per-user lock,
	// applies fn, and persists the result atomically.
	Mutate(ctx context.Context, userID uuid.UUID, fn func(state *ReputationState) error) error
	// ListInactiveSince returns users whose last activity predates the cutoff,
	// for scheduler-driven decay checks.
	ListInactiveSince(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}
