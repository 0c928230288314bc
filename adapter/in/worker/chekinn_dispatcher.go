package worker

import (
	"context"

	"chekinn_server/adapter/out/messaging"
	"chekinn_server/pkg/logger"

	"github.com/goccy/go-json"
)

// Handler routes decoded jobs to their processors. Implements
// messaging.JobHandler.
type Handler struct {
	scrapeProcessor     *ScrapeProcessor
	reputationProcessor *ReputationProcessor
}

// NewHandler creates a new Handler.
func NewHandler(scrapeProcessor *ScrapeProcessor, reputationProcessor *ReputationProcessor) *Handler {
	return &Handler{
		scrapeProcessor:     scrapeProcessor,
		reputationProcessor: reputationProcessor,
	}
}

// Handle decodes one stream entry and dispatches it by job type.
func (h *Handler) Handle(ctx context.Context, stream string, data []byte) error {
	var job messaging.Job
	if err := json.Unmarshal(data, &job); err != nil {
		logger.Warn("dropping undecodable job from %s: %v", stream, err)
		return nil
	}

	msg := &Message{
		ID:        job.ID,
		Type:      job.Type,
		Payload:   job.Payload,
		CreatedAt: job.CreatedAt,
	}

	logger.Debug("Processing message: %s", msg.Type)

	switch msg.Type {
	case messaging.JobScrapeProfiles:
		return h.scrapeProcessor.ProcessScrape(ctx, msg)
	case messaging.JobDecayCheck:
		return h.reputationProcessor.ProcessDecayCheck(ctx, msg)
	default:
		logger.Warn("Unknown job type: %s", msg.Type)
		return nil
	}
}
