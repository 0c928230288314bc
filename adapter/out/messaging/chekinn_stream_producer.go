// Package messaging provides message queue adapters.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"chekinn_server/core/port/out"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Stream names
const (
	StreamScrape     = "scrape:jobs"
	StreamReputation = "reputation:jobs"
)

// Job types
const (
	JobScrapeProfiles = "scrape.profiles"
	JobDecayCheck     = "reputation.decay_check"
)

// Job is the wire envelope for one background job.
type Job struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// RedisProducer implements out.JobProducer using Redis Streams.
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer creates a new RedisProducer.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

// PublishScrape enqueues a scrape batch for the user's pending profiles.
func (p *RedisProducer) PublishScrape(ctx context.Context, userID uuid.UUID) (string, error) {
	job := &Job{
		ID:   uuid.New().String(),
		Type: JobScrapeProfiles,
		Payload: map[string]any{
			"user_id": userID.String(),
		},
		CreatedAt: time.Now(),
	}
	return p.publish(ctx, StreamScrape, job)
}

// PublishDecayCheck enqueues a reputation decay check for the user.
func (p *RedisProducer) PublishDecayCheck(ctx context.Context, userID uuid.UUID) (string, error) {
	job := &Job{
		ID:   uuid.New().String(),
		Type: JobDecayCheck,
		Payload: map[string]any{
			"user_id": userID.String(),
		},
		CreatedAt: time.Now(),
	}
	return p.publish(ctx, StreamReputation, job)
}

// publish publishes a job to a stream using go-redis.
func (p *RedisProducer) publish(ctx context.Context, stream string, job *Job) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", stream, err)
	}

	return id, nil
}

// Ensure RedisProducer implements out.JobProducer
var _ out.JobProducer = (*RedisProducer)(nil)
