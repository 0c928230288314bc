package out

import (
	"context"

	"github.com/google/uuid"
)

// SourceBodyStore archives raw source text (email bodies, scraped pages)
// outside the relational store. Writes are best-effort.
type SourceBodyStore interface {
	SaveEmailBody(ctx context.Context, userID uuid.UUID, sourceID, body string) error
	SaveScrapedContent(ctx context.Context, userID uuid.UUID, profileURL, content string) error
}
