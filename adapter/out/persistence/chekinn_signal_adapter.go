package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"chekinn_server/core/domain"
	"chekinn_server/pkg/snowflake"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SignalAdapter implements domain.SignalRepository using PostgreSQL. Signal
// IDs are snowflakes so batch inserts stay ordered without a sequence round
// trip.
type SignalAdapter struct {
	db *sqlx.DB
}

// NewSignalAdapter creates a new SignalAdapter.
func NewSignalAdapter(db *sqlx.DB) *SignalAdapter {
	return &SignalAdapter{db: db}
}

// signalRow represents the database row for signals.
type signalRow struct {
	ID               int64          `db:"id"`
	UserID           uuid.UUID      `db:"user_id"`
	Category         string         `db:"category"`
	Type             string         `db:"type"`
	Subtype          string         `db:"subtype"`
	Confidence       string         `db:"confidence"`
	UserStory        sql.NullString `db:"user_story"`
	Evidence         string         `db:"evidence"`
	AuthorName       sql.NullString `db:"author_name"`
	AuthorHeadline   sql.NullString `db:"author_headline"`
	AuthorProfileURL sql.NullString `db:"author_profile_url"`
	SourceID         sql.NullString `db:"source_id"`
	OccurredAt       time.Time      `db:"occurred_at"`
	ExpiresAt        sql.NullTime   `db:"expires_at"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (r *signalRow) toDomain() *domain.Signal {
	signal := &domain.Signal{
		ID:         r.ID,
		UserID:     r.UserID,
		Category:   domain.SignalCategory(r.Category),
		Type:       r.Type,
		Subtype:    r.Subtype,
		Confidence: domain.ConfidenceLabel(r.Confidence),
		Evidence:   r.Evidence,
		OccurredAt: r.OccurredAt,
		CreatedAt:  r.CreatedAt,
	}
	if r.UserStory.Valid {
		signal.UserStory = r.UserStory.String
	}
	if r.AuthorName.Valid {
		signal.AuthorName = r.AuthorName.String
	}
	if r.AuthorHeadline.Valid {
		signal.AuthorHeadline = r.AuthorHeadline.String
	}
	if r.AuthorProfileURL.Valid {
		signal.AuthorProfileURL = r.AuthorProfileURL.String
	}
	if r.SourceID.Valid {
		signal.SourceID = r.SourceID.String
	}
	if r.ExpiresAt.Valid {
		signal.ExpiresAt = &r.ExpiresAt.Time
	}
	return signal
}

const insertSignalQuery = `
	INSERT INTO signals (
		id, user_id, category, type, subtype, confidence, user_story, evidence,
		author_name, author_headline, author_profile_url, source_id,
		occurred_at, expires_at, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8,
		NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''),
		$13, $14, $15
	)`

// Create stores one signal, assigning its ID.
func (a *SignalAdapter) Create(signal *domain.Signal) error {
	if signal.ID == 0 {
		signal.ID = snowflake.ID()
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now().UTC()
	}

	if _, err := a.db.Exec(insertSignalQuery,
		signal.ID, signal.UserID, signal.Category, signal.Type, signal.Subtype,
		signal.Confidence, signal.UserStory, signal.Evidence,
		signal.AuthorName, signal.AuthorHeadline, signal.AuthorProfileURL, signal.SourceID,
		signal.OccurredAt, signal.ExpiresAt, signal.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// CreateBatch stores signals in one transaction. All or nothing, so the
// caller's idempotency marking stays consistent with what was written.
func (a *SignalAdapter) CreateBatch(signals []*domain.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := a.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin signal batch: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, signal := range signals {
		if signal.ID == 0 {
			signal.ID = snowflake.ID()
		}
		if signal.CreatedAt.IsZero() {
			signal.CreatedAt = now
		}
		if _, err := tx.Exec(insertSignalQuery,
			signal.ID, signal.UserID, signal.Category, signal.Type, signal.Subtype,
			signal.Confidence, signal.UserStory, signal.Evidence,
			signal.AuthorName, signal.AuthorHeadline, signal.AuthorProfileURL, signal.SourceID,
			signal.OccurredAt, signal.ExpiresAt, signal.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert signal batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit signal batch: %w", err)
	}
	return nil
}

// ListHiringSince returns unexpired hiring signals observed since the given
// time, newest first.
func (a *SignalAdapter) ListHiringSince(since time.Time, limit int) ([]*domain.Signal, error) {
	query := `
		SELECT id, user_id, category, type, subtype, confidence, user_story,
		       evidence, author_name, author_headline, author_profile_url,
		       source_id, occurred_at, expires_at, created_at
		FROM signals
		WHERE type = $1
		  AND occurred_at >= $2
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY occurred_at DESC
		LIMIT $3`

	var rows []signalRow
	if err := a.db.Select(&rows, query, domain.SignalTypeHiring, since, limit); err != nil {
		return nil, fmt.Errorf("list hiring signals: %w", err)
	}

	signals := make([]*domain.Signal, 0, len(rows))
	for i := range rows {
		signals = append(signals, rows[i].toDomain())
	}
	return signals, nil
}

// ListByUser returns a user's signals, newest first.
func (a *SignalAdapter) ListByUser(userID uuid.UUID, limit, offset int) ([]*domain.Signal, error) {
	query := `
		SELECT id, user_id, category, type, subtype, confidence, user_story,
		       evidence, author_name, author_headline, author_profile_url,
		       source_id, occurred_at, expires_at, created_at
		FROM signals
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3`

	var rows []signalRow
	if err := a.db.Select(&rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list user signals: %w", err)
	}

	signals := make([]*domain.Signal, 0, len(rows))
	for i := range rows {
		signals = append(signals, rows[i].toDomain())
	}
	return signals, nil
}

// DeleteExpired removes signals whose validity window closed before the given
// time. Returns the number of rows removed.
func (a *SignalAdapter) DeleteExpired(before time.Time) (int64, error) {
	result, err := a.db.Exec(`DELETE FROM signals WHERE expires_at IS NOT NULL AND expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired signals: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired signals: %w", err)
	}
	return deleted, nil
}
