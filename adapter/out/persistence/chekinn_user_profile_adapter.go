package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserProfileAdapter implements domain.UserProfileRepository using
// PostgreSQL.
type UserProfileAdapter struct {
	db *sqlx.DB
}

// NewUserProfileAdapter creates a new UserProfileAdapter.
func NewUserProfileAdapter(db *sqlx.DB) *UserProfileAdapter {
	return &UserProfileAdapter{db: db}
}

// userProfileRow represents the database row for user profiles.
type userProfileRow struct {
	UserID    uuid.UUID      `db:"user_id"`
	Role      sql.NullString `db:"role"`
	Industry  sql.NullString `db:"industry"`
	Skills    pq.StringArray `db:"skills"`
	Interests pq.StringArray `db:"interests"`
}

func (r *userProfileRow) toDomain() *domain.UserProfile {
	profile := &domain.UserProfile{
		UserID:    r.UserID,
		Skills:    r.Skills,
		Interests: r.Interests,
	}
	if r.Role.Valid {
		profile.Role = r.Role.String
	}
	if r.Industry.Valid {
		profile.Industry = r.Industry.String
	}
	return profile
}

// Get returns the user's profile, or nil when none exists.
func (a *UserProfileAdapter) Get(userID uuid.UUID) (*domain.UserProfile, error) {
	query := `
		SELECT user_id, role, industry, skills, interests
		FROM user_profiles
		WHERE user_id = $1`

	var row userProfileRow
	if err := a.db.Get(&row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return row.toDomain(), nil
}

// Upsert stores the user's matching attributes.
func (a *UserProfileAdapter) Upsert(profile *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, role, industry, skills, interests, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET role = EXCLUDED.role,
		    industry = EXCLUDED.industry,
		    skills = EXCLUDED.skills,
		    interests = EXCLUDED.interests,
		    updated_at = NOW()`

	if _, err := a.db.Exec(query,
		profile.UserID, profile.Role, profile.Industry,
		pq.StringArray(profile.Skills), pq.StringArray(profile.Interests),
	); err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}
	return nil
}
