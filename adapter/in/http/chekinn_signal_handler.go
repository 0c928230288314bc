package http

import (
	"chekinn_server/core/domain"
	"chekinn_server/core/service/signal"
	"chekinn_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SignalHandler handles HTTP requests for signal extraction.
type SignalHandler struct {
	ingestor *signal.Ingestor
	signals  domain.SignalRepository
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(ingestor *signal.Ingestor, signals domain.SignalRepository) *SignalHandler {
	return &SignalHandler{
		ingestor: ingestor,
		signals:  signals,
	}
}

// Register registers signal routes.
func (h *SignalHandler) Register(router fiber.Router) {
	group := router.Group("/signals")
	group.Post("/extract", h.Extract)
	group.Post("/extract-llm", h.ExtractLLM)
	group.Get("/", h.List)
}

type extractRequest struct {
	Posts []domain.PostSource `json:"posts"`
}

// Extract runs the pattern classifier over a batch of posts
// @Summary Extract signals from posts
// @Tags Signals
// @Accept json
// @Produce json
// @Param request body extractRequest true "Post batch"
// @Success 200 {object} response.Response
// @Router /api/v1/signals/extract [post]
func (h *SignalHandler) Extract(c *fiber.Ctx) error {
	return h.extract(c, false)
}

// ExtractLLM runs the model-backed extractor over a batch of posts
// @Summary Extract signals from posts using the text provider
// @Tags Signals
// @Accept json
// @Produce json
// @Param request body extractRequest true "Post batch"
// @Success 200 {object} response.Response
// @Router /api/v1/signals/extract-llm [post]
func (h *SignalHandler) ExtractLLM(c *fiber.Ctx) error {
	return h.extract(c, true)
}

func (h *SignalHandler) extract(c *fiber.Ctx, useLLM bool) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if len(req.Posts) == 0 {
		return response.BadRequest(c, "posts is required")
	}

	signals, err := h.ingestor.Ingest(c.Context(), userID, req.Posts, useLLM)
	if err != nil {
		return response.InternalError(c, "signal extraction failed")
	}

	return response.OK(c, fiber.Map{
		"signals": signals,
		"count":   len(signals),
	})
}

// List returns the user's stored signals
// @Summary List signals
// @Tags Signals
// @Produce json
// @Param limit query int false "Limit (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/v1/signals [get]
func (h *SignalHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)

	signals, err := h.signals.ListByUser(userID, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list signals")
	}

	return response.OK(c, fiber.Map{
		"signals": signals,
		"count":   len(signals),
	})
}
