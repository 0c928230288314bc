package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScrapeStatus tracks the lifecycle of an inferred profile's content fetch.
// pending → scraped|failed; skipped is terminal and assigned at creation when
// confidence is below the scrape threshold.
type ScrapeStatus string

const (
	ScrapePending ScrapeStatus = "pending"
	ScrapeScraped ScrapeStatus = "scraped"
	ScrapeSkipped ScrapeStatus = "skipped"
	ScrapeFailed  ScrapeStatus = "failed"
)

// CanTransitionTo reports whether the status change is allowed.
func (s ScrapeStatus) CanTransitionTo(next ScrapeStatus) bool {
	if s != ScrapePending {
		return false
	}
	return next == ScrapeScraped || next == ScrapeFailed
}

// InferredSocialProfile is a social handle inferred from a user's email
// sources. Unique per (user, platform, profile URL); upsert semantics.
type InferredSocialProfile struct {
	ID         int64          `json:"id" db:"id"`
	UserID     uuid.UUID      `json:"user_id" db:"user_id"`
	Platform   SocialPlatform `json:"platform" db:"platform"`
	ProfileURL string         `json:"profile_url" db:"profile_url"`
	Handle     string         `json:"handle" db:"handle"`
	Confidence float64        `json:"confidence" db:"confidence"`
	SourceType string         `json:"source_type" db:"source_type"`
	Status     ScrapeStatus   `json:"scrape_status" db:"scrape_status"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// SocialProfileRepository persists inferred social profiles.
type SocialProfileRepository interface {
	// Upsert inserts the profile or, on (user_id, platform, profile_url)
	// conflict, keeps the record with the higher confidence. Terminal
	// statuses are never reopened by an upsert.
	Upsert(profile *InferredSocialProfile) error
	ListByUser(userID uuid.UUID) ([]*InferredSocialProfile, error)
	ListPending(userID uuid.UUID, limit int) ([]*InferredSocialProfile, error)
	// MarkScrapeResult transitions pending → scraped|failed. Returns false
	// when the row was not pending (no-op).
	MarkScrapeResult(id int64, status ScrapeStatus) (bool, error)
}
