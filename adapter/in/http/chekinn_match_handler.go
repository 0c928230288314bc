package http

import (
	"chekinn_server/core/service/match"
	"chekinn_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MatchHandler handles HTTP requests for hiring-network matching.
type MatchHandler struct {
	matcher *match.Service
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matcher *match.Service) *MatchHandler {
	return &MatchHandler{matcher: matcher}
}

// Register registers match routes.
func (h *MatchHandler) Register(router fiber.Router) {
	group := router.Group("/match")
	group.Post("/hiring", h.Hiring)
}

// Hiring ranks recent hiring signals against the user's profile
// @Summary Match hiring signals to the user
// @Tags Match
// @Produce json
// @Param with_context query bool false "Generate a context blurb per match"
// @Success 200 {object} response.Response
// @Router /api/v1/match/hiring [post]
func (h *MatchHandler) Hiring(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	withContext := c.QueryBool("with_context", false)

	matches, err := h.matcher.FindHiringMatches(c.Context(), userID, withContext)
	if err != nil {
		return response.InternalError(c, "matching failed")
	}

	return response.OK(c, fiber.Map{
		"matches": matches,
		"count":   len(matches),
	})
}
