// Package worker processes background jobs consumed from Redis Streams.
package worker

import (
	"time"

	"github.com/goccy/go-json"
)

// Message is one decoded job envelope.
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// UserPayload is the payload shape shared by per-user jobs.
type UserPayload struct {
	UserID string `json:"user_id"`
}

// ParsePayload decodes a message payload into a typed struct.
func ParsePayload[T any](msg *Message) (*T, error) {
	var payload T
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
