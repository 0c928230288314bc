package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SocialProfileAdapter implements domain.SocialProfileRepository using
// PostgreSQL.
type SocialProfileAdapter struct {
	db *sqlx.DB
}

// NewSocialProfileAdapter creates a new SocialProfileAdapter.
func NewSocialProfileAdapter(db *sqlx.DB) *SocialProfileAdapter {
	return &SocialProfileAdapter{db: db}
}

// socialProfileRow represents the database row for inferred profiles.
type socialProfileRow struct {
	ID         int64     `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Platform   string    `db:"platform"`
	ProfileURL string    `db:"profile_url"`
	Handle     string    `db:"handle"`
	Confidence float64   `db:"confidence"`
	SourceType string    `db:"source_type"`
	Status     string    `db:"scrape_status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *socialProfileRow) toDomain() *domain.InferredSocialProfile {
	return &domain.InferredSocialProfile{
		ID:         r.ID,
		UserID:     r.UserID,
		Platform:   domain.SocialPlatform(r.Platform),
		ProfileURL: r.ProfileURL,
		Handle:     r.Handle,
		Confidence: r.Confidence,
		SourceType: r.SourceType,
		Status:     domain.ScrapeStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Upsert inserts the profile, or on (user_id, platform, profile_url) conflict
// keeps whichever record carries the higher confidence. A terminal scrape
// status is never reopened by a later upsert.
func (a *SocialProfileAdapter) Upsert(profile *domain.InferredSocialProfile) error {
	query := `
		INSERT INTO inferred_social_profiles (
			user_id, platform, profile_url, handle, confidence, source_type, scrape_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, platform, profile_url) DO UPDATE
		SET handle = EXCLUDED.handle,
		    confidence = EXCLUDED.confidence,
		    source_type = EXCLUDED.source_type,
		    scrape_status = CASE
		        WHEN inferred_social_profiles.scrape_status = 'pending' THEN EXCLUDED.scrape_status
		        ELSE inferred_social_profiles.scrape_status
		    END,
		    updated_at = NOW()
		WHERE EXCLUDED.confidence > inferred_social_profiles.confidence
		RETURNING id, created_at, updated_at`

	err := a.db.QueryRowx(query,
		profile.UserID, profile.Platform, profile.ProfileURL,
		profile.Handle, profile.Confidence, profile.SourceType, profile.Status,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict with an equal or higher confidence record: keep it.
		return nil
	}
	if err != nil {
		return fmt.Errorf("upsert social profile: %w", err)
	}
	return nil
}

// ListByUser returns all inferred profiles for a user, newest first.
func (a *SocialProfileAdapter) ListByUser(userID uuid.UUID) ([]*domain.InferredSocialProfile, error) {
	query := `
		SELECT id, user_id, platform, profile_url, handle, confidence,
		       source_type, scrape_status, created_at, updated_at
		FROM inferred_social_profiles
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var rows []socialProfileRow
	if err := a.db.Select(&rows, query, userID); err != nil {
		return nil, fmt.Errorf("list social profiles: %w", err)
	}

	profiles := make([]*domain.InferredSocialProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toDomain())
	}
	return profiles, nil
}

// ListPending returns profiles awaiting a scrape, highest confidence first.
func (a *SocialProfileAdapter) ListPending(userID uuid.UUID, limit int) ([]*domain.InferredSocialProfile, error) {
	query := `
		SELECT id, user_id, platform, profile_url, handle, confidence,
		       source_type, scrape_status, created_at, updated_at
		FROM inferred_social_profiles
		WHERE user_id = $1 AND scrape_status = 'pending'
		ORDER BY confidence DESC, id ASC
		LIMIT $2`

	var rows []socialProfileRow
	if err := a.db.Select(&rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}

	profiles := make([]*domain.InferredSocialProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toDomain())
	}
	return profiles, nil
}

// MarkScrapeResult transitions a pending profile to scraped or failed.
// Returns false when the row was not pending anymore.
func (a *SocialProfileAdapter) MarkScrapeResult(id int64, status domain.ScrapeStatus) (bool, error) {
	if !domain.ScrapePending.CanTransitionTo(status) {
		return false, fmt.Errorf("%w: scrape status %q", ErrInvalidInput, status)
	}

	query := `
		UPDATE inferred_social_profiles
		SET scrape_status = $2, updated_at = NOW()
		WHERE id = $1 AND scrape_status = 'pending'`

	result, err := a.db.Exec(query, id, status)
	if err != nil {
		return false, fmt.Errorf("mark scrape result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark scrape result: %w", err)
	}
	return affected > 0, nil
}
