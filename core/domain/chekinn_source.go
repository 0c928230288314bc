package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailSource is one raw email unit submitted for social-profile inference.
// Missing fields are treated as empty strings, never as errors.
type EmailSource struct {
	SourceID string `json:"sourceId"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// PostSource is one raw post unit submitted for signal classification.
type PostSource struct {
	SourceID         string     `json:"sourceId"`
	Text             string     `json:"text"`
	AuthorName       string     `json:"authorName,omitempty"`
	AuthorHeadline   string     `json:"authorHeadline,omitempty"`
	AuthorProfileURL string     `json:"authorProfileUrl,omitempty"`
	PostedAt         *time.Time `json:"postedAt,omitempty"`
}

// ProcessedSourceStore tracks which source IDs have already been consumed for
// a user. Append-only; a marked source is never reprocessed.
type ProcessedSourceStore interface {
	IsProcessed(ctx context.Context, userID uuid.UUID, sourceID string) (bool, error)
	MarkProcessed(ctx context.Context, userID uuid.UUID, sourceIDs ...string) error
}
