// Package scrape fetches pending inferred profiles and turns their content
// into signals.
package scrape

import (
	"context"
	"strings"
	"time"

	"chekinn_server/core/domain"
	"chekinn_server/core/port/out"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// Config holds the scrape batch knobs.
type Config struct {
	// Delay is the pause between external fetches. Scrapes are serialized
	// with this delay rather than issued concurrently.
	Delay time.Duration
	// BatchSize bounds how many pending profiles one run picks up.
	BatchSize int
	// SignalTTL is the validity window of signals derived from scraped
	// content.
	SignalTTL time.Duration
	// EvidenceMaxLen caps signal evidence extracted from page content.
	EvidenceMaxLen int
}

// DefaultConfig returns the production scrape settings.
func DefaultConfig() Config {
	return Config{
		Delay:          2 * time.Second,
		BatchSize:      5,
		SignalTTL:      30 * 24 * time.Hour,
		EvidenceMaxLen: 200,
	}
}

const scrapeSummarySystemPrompt = `You summarize a person's public social profile page.
Extract career and social signals. Respond with a JSON object:
{"signals":[{"type":"hiring|role_change|event","subtype":"...","confidence":"LOW|MEDIUM|HIGH","evidence":"..."}]}.
Return {"signals":[]} when nothing applies. Respond with JSON only.`

type scrapedSignal struct {
	Type       string `json:"type"`
	Subtype    string `json:"subtype"`
	Confidence string `json:"confidence"`
	Evidence   string `json:"evidence"`
}

type scrapeSummary struct {
	Signals []scrapedSignal `json:"signals"`
}

// Result reports one scrape run's outcome.
type Result struct {
	Scraped int `json:"scraped"`
	Failed  int `json:"failed"`
	Signals int `json:"signals"`
}

// Scraper drains a user's pending profiles: fetch the page, archive it,
// summarize it into signals, and advance the scrape status.
type Scraper struct {
	cfg      Config
	profiles domain.SocialProfileRepository
	signals  domain.SignalRepository
	fetcher  out.ContentFetcher
	analyzer out.TextAnalyzer
	bodies   out.SourceBodyStore
	log      *logger.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewScraper creates a scraper. bodies may be nil (archiving disabled).
func NewScraper(cfg Config, profiles domain.SocialProfileRepository, signals domain.SignalRepository, fetcher out.ContentFetcher, analyzer out.TextAnalyzer, bodies out.SourceBodyStore) *Scraper {
	return &Scraper{
		cfg:      cfg,
		profiles: profiles,
		signals:  signals,
		fetcher:  fetcher,
		analyzer: analyzer,
		bodies:   bodies,
		log:      logger.Default().WithField("component", "scraper"),
		sleep:    time.Sleep,
	}
}

// Run processes up to BatchSize pending profiles for the user. Items are
// fetched one at a time with a courtesy delay in between. A failed fetch
// marks that profile failed and the batch continues.
func (s *Scraper) Run(ctx context.Context, userID uuid.UUID) (*Result, error) {
	pending, err := s.profiles.ListPending(userID, s.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	now := time.Now().UTC()

	for i, profile := range pending {
		if i > 0 {
			s.sleep(s.cfg.Delay)
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		content, err := s.fetcher.Fetch(ctx, profile.ProfileURL)
		if err != nil {
			s.log.WithError(err).Warn("fetch failed for %s", profile.ProfileURL)
			if _, err := s.profiles.MarkScrapeResult(profile.ID, domain.ScrapeFailed); err != nil {
				s.log.WithError(err).Warn("marking profile %d failed errored", profile.ID)
			}
			result.Failed++
			continue
		}

		if s.bodies != nil {
			if err := s.bodies.SaveScrapedContent(ctx, userID, profile.ProfileURL, content); err != nil {
				s.log.WithError(err).Debug("content archive failed for %s", profile.ProfileURL)
			}
		}

		created := s.summarize(ctx, userID, profile, content, now)
		result.Signals += created

		if _, err := s.profiles.MarkScrapeResult(profile.ID, domain.ScrapeScraped); err != nil {
			s.log.WithError(err).Warn("marking profile %d scraped errored", profile.ID)
		}
		result.Scraped++
	}

	return result, nil
}

// summarize turns page content into stored signals. Provider failure or
// malformed output yields zero signals; the scrape itself still counts as
// done.
func (s *Scraper) summarize(ctx context.Context, userID uuid.UUID, profile *domain.InferredSocialProfile, content string, now time.Time) int {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	var summary scrapeSummary
	if err := s.analyzer.AnalyzeJSON(ctx, scrapeSummarySystemPrompt, content, &summary); err != nil {
		s.log.WithError(err).Warn("summarize failed for %s", profile.ProfileURL)
		return 0
	}

	expiresAt := now.Add(s.cfg.SignalTTL)

	var batch []*domain.Signal
	for _, raw := range summary.Signals {
		signalType, category, ok := normalizeSignalType(raw.Type)
		if !ok {
			continue
		}

		evidence := strings.TrimSpace(raw.Evidence)
		if len(evidence) > s.cfg.EvidenceMaxLen {
			evidence = evidence[:s.cfg.EvidenceMaxLen]
		}

		batch = append(batch, &domain.Signal{
			UserID:           userID,
			Category:         category,
			Type:             signalType,
			Subtype:          raw.Subtype,
			Confidence:       normalizeConfidence(raw.Confidence),
			Evidence:         evidence,
			AuthorName:       profile.Handle,
			AuthorProfileURL: profile.ProfileURL,
			SourceID:         profile.ProfileURL,
			OccurredAt:       now,
			ExpiresAt:        &expiresAt,
			CreatedAt:        now,
		})
	}

	if len(batch) == 0 {
		return 0
	}
	if err := s.signals.CreateBatch(batch); err != nil {
		s.log.WithError(err).Warn("storing %d scraped signals failed", len(batch))
		return 0
	}
	return len(batch)
}

func normalizeSignalType(raw string) (string, domain.SignalCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case domain.SignalTypeHiring:
		return domain.SignalTypeHiring, domain.CategoryCareer, true
	case domain.SignalTypeRoleChange:
		return domain.SignalTypeRoleChange, domain.CategoryCareer, true
	case domain.SignalTypeEvent:
		return domain.SignalTypeEvent, domain.CategorySocial, true
	default:
		return "", "", false
	}
}

func normalizeConfidence(raw string) domain.ConfidenceLabel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(domain.ConfidenceHigh):
		return domain.ConfidenceHigh
	case string(domain.ConfidenceLow):
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}
