package http

import (
	"chekinn_server/core/domain"
	"chekinn_server/core/port/out"
	"chekinn_server/core/service/social"
	"chekinn_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SocialHandler handles HTTP requests for social profile inference.
type SocialHandler struct {
	extractor *social.Extractor
	profiles  domain.SocialProfileRepository
	producer  out.JobProducer
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(extractor *social.Extractor, profiles domain.SocialProfileRepository, producer out.JobProducer) *SocialHandler {
	return &SocialHandler{
		extractor: extractor,
		profiles:  profiles,
		producer:  producer,
	}
}

// Register registers social routes.
func (h *SocialHandler) Register(router fiber.Router) {
	group := router.Group("/social")
	group.Post("/infer", h.Infer)
	group.Post("/scrape", h.Scrape)
	group.Get("/profiles", h.ListProfiles)
}

type inferRequest struct {
	Emails []domain.EmailSource `json:"emails"`
}

// Infer extracts social profiles from a batch of emails
// @Summary Infer social profiles from emails
// @Tags Social
// @Accept json
// @Produce json
// @Param request body inferRequest true "Email batch"
// @Success 200 {object} response.Response
// @Router /api/v1/social/infer [post]
func (h *SocialHandler) Infer(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	var req inferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if len(req.Emails) == 0 {
		return response.BadRequest(c, "emails is required")
	}

	profiles, err := h.extractor.ExtractBatch(c.Context(), userID, req.Emails)
	if err != nil {
		return response.InternalError(c, "extraction failed")
	}

	return response.OK(c, fiber.Map{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// Scrape enqueues a scrape batch for the user's pending profiles
// @Summary Queue scraping of pending profiles
// @Tags Social
// @Produce json
// @Success 202 {object} response.Response
// @Router /api/v1/social/scrape [post]
func (h *SocialHandler) Scrape(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	jobID, err := h.producer.PublishScrape(c.Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to queue scrape")
	}

	return response.Accepted(c, fiber.Map{"job_id": jobID})
}

// ListProfiles returns the user's inferred profiles
// @Summary List inferred social profiles
// @Tags Social
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/social/profiles [get]
func (h *SocialHandler) ListProfiles(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Error(c, 401, "UNAUTHORIZED", "authentication required")
	}

	profiles, err := h.profiles.ListByUser(userID)
	if err != nil {
		return response.InternalError(c, "failed to list profiles")
	}

	return response.OK(c, fiber.Map{
		"profiles": profiles,
		"count":    len(profiles),
	})
}
