package out

import (
	"context"

	"github.com/google/uuid"
)

// JobProducer enqueues background jobs for the worker.
type JobProducer interface {
	PublishScrape(ctx context.Context, userID uuid.UUID) (string, error)
	PublishDecayCheck(ctx context.Context, userID uuid.UUID) (string, error)
}
