package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProcessedSourceAdapter implements domain.ProcessedSourceStore on a Redis
// set per user. Append-only: members are added, never removed, so a consumed
// source stays consumed across invocations.
type ProcessedSourceAdapter struct {
	client *redis.Client
}

// NewProcessedSourceAdapter creates a new ProcessedSourceAdapter.
func NewProcessedSourceAdapter(client *redis.Client) *ProcessedSourceAdapter {
	return &ProcessedSourceAdapter{client: client}
}

func processedKey(userID uuid.UUID) string {
	return fmt.Sprintf("processed:sources:%s", userID.String())
}

// IsProcessed reports whether the source was already consumed for this user.
func (a *ProcessedSourceAdapter) IsProcessed(ctx context.Context, userID uuid.UUID, sourceID string) (bool, error) {
	member, err := a.client.SIsMember(ctx, processedKey(userID), sourceID).Result()
	if err != nil {
		return false, fmt.Errorf("check processed source: %w", err)
	}
	return member, nil
}

// MarkProcessed records the sources as consumed.
func (a *ProcessedSourceAdapter) MarkProcessed(ctx context.Context, userID uuid.UUID, sourceIDs ...string) error {
	if len(sourceIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(sourceIDs))
	for i, id := range sourceIDs {
		members[i] = id
	}
	if err := a.client.SAdd(ctx, processedKey(userID), members...).Err(); err != nil {
		return fmt.Errorf("mark sources processed: %w", err)
	}
	return nil
}
