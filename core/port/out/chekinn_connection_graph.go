package out

import (
	"context"

	"github.com/google/uuid"
)

// ConnectionGraph stores each user's first-degree network.
type ConnectionGraph interface {
	IsFirstDegree(ctx context.Context, userID uuid.UUID, profileURL string) (bool, error)
	AddConnection(ctx context.Context, userID uuid.UUID, profileURL, displayName string) error
	ListConnections(ctx context.Context, userID uuid.UUID, limit int) ([]string, error)
}
