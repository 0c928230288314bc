// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ReputationAdapter implements domain.ReputationRepository using PostgreSQL.
// Mutate serializes concurrent updates per user with SELECT ... FOR UPDATE.
type ReputationAdapter struct {
	db *sqlx.DB
}

// NewReputationAdapter creates a new ReputationAdapter.
func NewReputationAdapter(db *sqlx.DB) *ReputationAdapter {
	return &ReputationAdapter{db: db}
}

// reputationRow represents the database row for reputation state.
type reputationRow struct {
	UserID         uuid.UUID    `db:"user_id"`
	Impact         float64      `db:"impact"`
	ThoughtQuality float64      `db:"thought_quality"`
	Discretion     float64      `db:"discretion"`
	Pull           float64      `db:"pull"`
	LastActiveAt   time.Time    `db:"last_active_at"`
	FrozenUntil    sql.NullTime `db:"frozen_until"`
	Unlocked       bool         `db:"unlocked"`
	UnlockedAt     sql.NullTime `db:"unlocked_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (r *reputationRow) toDomain() *domain.ReputationState {
	state := &domain.ReputationState{
		UserID:         r.UserID,
		Impact:         r.Impact,
		ThoughtQuality: r.ThoughtQuality,
		Discretion:     r.Discretion,
		Pull:           r.Pull,
		LastActiveAt:   r.LastActiveAt,
		Unlocked:       r.Unlocked,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.FrozenUntil.Valid {
		state.FrozenUntil = &r.FrozenUntil.Time
	}
	if r.UnlockedAt.Valid {
		state.UnlockedAt = &r.UnlockedAt.Time
	}
	return state
}

// Get returns the state for a user, or nil when none exists yet.
func (a *ReputationAdapter) Get(ctx context.Context, userID uuid.UUID) (*domain.ReputationState, error) {
	query := `
		SELECT user_id, impact, thought_quality, discretion, pull,
		       last_active_at, frozen_until, unlocked, unlocked_at,
		       created_at, updated_at
		FROM reputation_states
		WHERE user_id = $1`

	var row reputationRow
	if err := a.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reputation state: %w", err)
	}
	return row.toDomain(), nil
}

// Mutate loads the user's row under a row lock, creating it lazily, applies
// fn and writes the result back in the same transaction.
func (a *ReputationAdapter) Mutate(ctx context.Context, userID uuid.UUID, fn func(state *domain.ReputationState) error) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reputation tx: %w", err)
	}
	defer tx.Rollback()

	// Lazy insert first so the subsequent lock always finds a row. ON
	// CONFLICT keeps two first-action races from failing.
	now := time.Now().UTC()
	insert := `
		INSERT INTO reputation_states (user_id, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $2, $2)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, insert, userID, now); err != nil {
		return fmt.Errorf("init reputation state: %w", err)
	}

	query := `
		SELECT user_id, impact, thought_quality, discretion, pull,
		       last_active_at, frozen_until, unlocked, unlocked_at,
		       created_at, updated_at
		FROM reputation_states
		WHERE user_id = $1
		FOR UPDATE`

	var row reputationRow
	if err := tx.GetContext(ctx, &row, query, userID); err != nil {
		return fmt.Errorf("lock reputation state: %w", err)
	}

	state := row.toDomain()
	if err := fn(state); err != nil {
		return err
	}

	update := `
		UPDATE reputation_states
		SET impact = $2, thought_quality = $3, discretion = $4, pull = $5,
		    last_active_at = $6, frozen_until = $7, unlocked = $8,
		    unlocked_at = $9, updated_at = $10
		WHERE user_id = $1`
	if _, err := tx.ExecContext(ctx, update,
		state.UserID, state.Impact, state.ThoughtQuality, state.Discretion, state.Pull,
		state.LastActiveAt, state.FrozenUntil, state.Unlocked, state.UnlockedAt, state.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update reputation state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reputation tx: %w", err)
	}
	return nil
}

// ListInactiveSince returns users whose last activity predates the cutoff.
func (a *ReputationAdapter) ListInactiveSince(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM reputation_states
		WHERE last_active_at < $1
		ORDER BY last_active_at ASC
		LIMIT $2`

	var users []uuid.UUID
	if err := a.db.SelectContext(ctx, &users, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("list inactive users: %w", err)
	}
	return users, nil
}
