package middleware

import (
	"fmt"
	"time"

	"chekinn_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimit applies a fixed-window per-user (or per-IP) request limit backed
// by Redis. Fails open when Redis is unavailable.
func RateLimit(client *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Next()
		}

		key := c.IP()
		if uid, ok := c.Locals("user_id").(uuid.UUID); ok {
			key = uid.String()
		}
		redisKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))

		count, err := client.Incr(c.Context(), redisKey).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			client.Expire(c.Context(), redisKey, window)
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(limit) {
			return apperr.ErrRateLimited
		}

		return c.Next()
	}
}
