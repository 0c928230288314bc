package worker

import (
	"context"
	"fmt"

	"chekinn_server/core/service/scrape"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// ScrapeProcessor drains pending profile scrapes for one user per job.
type ScrapeProcessor struct {
	scraper *scrape.Scraper
}

// NewScrapeProcessor creates a new ScrapeProcessor.
func NewScrapeProcessor(scraper *scrape.Scraper) *ScrapeProcessor {
	return &ScrapeProcessor{scraper: scraper}
}

// ProcessScrape runs one scrape batch for the user in the payload.
func (p *ScrapeProcessor) ProcessScrape(ctx context.Context, msg *Message) error {
	if p.scraper == nil {
		logger.Warn("dropping scrape job %s: scraping is not configured", msg.ID)
		return nil
	}

	payload, err := ParsePayload[UserPayload](msg)
	if err != nil {
		return fmt.Errorf("parse scrape payload: %w", err)
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		// Unparseable user id: the job can never succeed, drop it.
		logger.Warn("dropping scrape job %s with bad user id %q", msg.ID, payload.UserID)
		return nil
	}

	result, err := p.scraper.Run(ctx, userID)
	if err != nil {
		return fmt.Errorf("scrape run for %s: %w", userID, err)
	}

	logger.Info("scrape batch done for %s: %d scraped, %d failed, %d signals",
		userID, result.Scraped, result.Failed, result.Signals)
	return nil
}
