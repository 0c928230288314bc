// Package http contains the fiber request handlers.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

// GetUserID extracts the authenticated user from fiber locals. Requests
// without a JWT (service-to-service calls) may carry the user in the body
// instead.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if userID, ok := c.Locals("user_id").(uuid.UUID); ok {
		return userID, nil
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&body); err == nil && body.UserID != "" {
		if userID, err := uuid.Parse(body.UserID); err == nil {
			return userID, nil
		}
	}

	return uuid.Nil, ErrUnauthorized
}
