package http

import (
	"chekinn_server/core/domain"
	"chekinn_server/core/service/reputation"
	"chekinn_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// allowedActions are the action kinds callers may submit. decay_check is
// scheduler-only and deliberately absent.
var allowedActions = map[domain.ReputationAction]bool{
	domain.ActionMessageSent:     true,
	domain.ActionQualityResponse: true,
	domain.ActionProfileComplete: true,
	domain.ActionConnectionMade:  true,
	domain.ActionMisuse:          true,
}

// ReputationHandler handles HTTP requests for reputation tracking.
type ReputationHandler struct {
	reputation *reputation.Service
}

// NewReputationHandler creates a new ReputationHandler.
func NewReputationHandler(svc *reputation.Service) *ReputationHandler {
	return &ReputationHandler{reputation: svc}
}

// Register registers reputation routes.
func (h *ReputationHandler) Register(router fiber.Router) {
	group := router.Group("/reputation")
	group.Post("/track", h.Track)
	group.Get("/status", h.Status)
}

type trackRequest struct {
	Action   string                     `json:"action"`
	Metadata *reputation.ActionMetadata `json:"metadata,omitempty"`
}

// Track records a reputation action for the user
// @Summary Track a reputation action
// @Tags Reputation
// @Accept json
// @Produce json
// @Param request body trackRequest true "Action"
// @Success 200 {object} response.Response
// @Router /api/v1/reputation/track [post]
func (h *ReputationHandler) Track(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	var req trackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Action == "" {
		return response.BadRequest(c, "action is required")
	}

	action := domain.ReputationAction(req.Action)
	if !allowedActions[action] {
		return response.BadRequest(c, "unknown action")
	}

	// Best-effort by contract: tracking cannot fail the caller.
	h.reputation.Track(c.Context(), userID, action, req.Metadata)

	return response.OK(c, fiber.Map{"tracked": true})
}

// Status returns whether Undercurrents is unlocked for the user
// @Summary Get unlock status
// @Tags Reputation
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/reputation/status [get]
func (h *ReputationHandler) Status(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	status, err := h.reputation.Status(c.Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to load status")
	}

	return response.OK(c, status)
}
