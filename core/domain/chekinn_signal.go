package domain

import (
	"time"

	"github.com/google/uuid"
)

// Signal types (coarse).
const (
	SignalTypeHiring     = "hiring"
	SignalTypeRoleChange = "role_change"
	SignalTypeEvent      = "event"
)

// Signal subtypes emitted by the pattern classifier.
const (
	SubtypeHiringGeneral  = "hiring_general"
	SubtypeHiringSeeking  = "hiring_seeking"
	SubtypeHiringTeam     = "hiring_team"
	SubtypeHiringOpenRole = "hiring_open_role"
	SubtypeHiringDMsOpen  = "hiring_dms_open"
	SubtypeFounderHiring  = "founder_hiring"

	SubtypeRoleJoined    = "role_joined"
	SubtypeRoleStarting  = "role_starting"
	SubtypeRoleAnnounced = "role_announced"
	SubtypeRoleNewPath   = "role_new_path"

	SubtypeEventHosting  = "event_hosting"
	SubtypeEventGeneral  = "event_general"
	SubtypeEventSpeaking = "event_speaking"
)

// Signal is a typed, confidence-scored observation extracted from one text
// unit (email or post). Immutable once created; social-derived signals carry
// an expiry.
type Signal struct {
	ID         int64           `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Category   SignalCategory  `json:"category" db:"category"`
	Type       string          `json:"type" db:"type"`
	Subtype    string          `json:"subtype" db:"subtype"`
	Confidence ConfidenceLabel `json:"confidence" db:"confidence"`
	UserStory  string          `json:"user_story" db:"user_story"`
	Evidence   string          `json:"evidence" db:"evidence"`

	// Author metadata carried from the source unit.
	AuthorName       string `json:"author_name,omitempty" db:"author_name"`
	AuthorHeadline   string `json:"author_headline,omitempty" db:"author_headline"`
	AuthorProfileURL string `json:"author_profile_url,omitempty" db:"author_profile_url"`

	SourceID   string     `json:"source_id,omitempty" db:"source_id"`
	OccurredAt time.Time  `json:"occurred_at" db:"occurred_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the signal's validity window has passed.
func (s *Signal) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// SignalRepository persists extracted signals.
type SignalRepository interface {
	Create(signal *Signal) error
	CreateBatch(signals []*Signal) error
	// ListHiringSince returns unexpired hiring-type signals observed since the
	// given time, newest first.
	ListHiringSince(since time.Time, limit int) ([]*Signal, error)
	ListByUser(userID uuid.UUID, limit, offset int) ([]*Signal, error)
	DeleteExpired(before time.Time) (int64, error)
}
