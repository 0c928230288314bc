package social

import (
	"context"
	"regexp"
	"strings"

	"chekinn_server/core/domain"
	"chekinn_server/core/port/out"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// ExtractorConfig holds the extraction thresholds.
type ExtractorConfig struct {
	// ScrapeThreshold is the minimum confidence for a profile to be queued
	// for scraping; below it the profile is created as skipped.
	ScrapeThreshold float64
	// SignatureZone is the fraction of the body after which a match counts
	// as signature-positioned.
	SignatureZone float64
	// MinHandleLen rejects short bare @mentions.
	MinHandleLen int
}

// DefaultExtractorConfig returns the production thresholds.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ScrapeThreshold: 0.7,
		SignatureZone:   0.8,
		MinHandleLen:    3,
	}
}

var (
	linkedinProfileRe = regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9\-_%]+)`)
	linkedinCompanyRe = regexp.MustCompile(`(?i)linkedin\.com/company/([A-Za-z0-9\-_%]+)`)
	twitterURLRe      = regexp.MustCompile(`(?i)(?:twitter|x)\.com/([A-Za-z0-9_]{1,15})`)
	twitterMentionRe  = regexp.MustCompile(`@([A-Za-z0-9_]{1,15})\b`)
)

// mentionStopWords suppresses common false-positive bare @mentions.
var mentionStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "you": true,
	"are": true, "was": true, "has": true,
}

// twitterReservedPaths are x.com/twitter.com paths that are not profiles.
var twitterReservedPaths = map[string]bool{
	"intent": true, "share": true, "home": true, "search": true,
	"hashtag": true, "i": true,
}

// Extractor scans email sources for social profile mentions. Stateless aside
// from the idempotency set and emitted records.
type Extractor struct {
	cfg       ExtractorConfig
	profiles  domain.SocialProfileRepository
	processed domain.ProcessedSourceStore
	bodies    out.SourceBodyStore
	log       *logger.Logger
}

// NewExtractor creates an extractor. bodies may be nil (archiving disabled).
func NewExtractor(cfg ExtractorConfig, profiles domain.SocialProfileRepository, processed domain.ProcessedSourceStore, bodies out.SourceBodyStore) *Extractor {
	return &Extractor{
		cfg:       cfg,
		profiles:  profiles,
		processed: processed,
		bodies:    bodies,
		log:       logger.Default().WithField("component", "social-extractor"),
	}
}

// ExtractBatch processes unprocessed sources and upserts inferred profiles.
// Each source is consumed at most once per user; a source contributing zero
// matches is still marked processed. A failing source never aborts the batch.
func (e *Extractor) ExtractBatch(ctx context.Context, userID uuid.UUID, sources []domain.EmailSource) ([]*domain.InferredSocialProfile, error) {
	var emitted []*domain.InferredSocialProfile

	for _, src := range sources {
		if src.SourceID == "" {
			continue
		}

		done, err := e.processed.IsProcessed(ctx, userID, src.SourceID)
		if err != nil {
			e.log.WithError(err).Warn("idempotency check failed for source %s", src.SourceID)
			continue
		}
		if done {
			continue
		}

		candidates := e.ExtractFromSource(userID, src)
		for _, candidate := range candidates {
			if err := e.profiles.Upsert(candidate); err != nil {
				e.log.WithError(err).Warn("profile upsert failed for %s", candidate.ProfileURL)
				continue
			}
			emitted = append(emitted, candidate)
		}

		if e.bodies != nil && src.Body != "" {
			if err := e.bodies.SaveEmailBody(ctx, userID, src.SourceID, src.Body); err != nil {
				e.log.WithError(err).Debug("body archive failed for source %s", src.SourceID)
			}
		}

		if err := e.processed.MarkProcessed(ctx, userID, src.SourceID); err != nil {
			e.log.WithError(err).Warn("marking source %s processed failed", src.SourceID)
		}
	}

	return emitted, nil
}

// ExtractFromSource runs the pattern pass over a single source. Pure: no
// persistence, no idempotency.
func (e *Extractor) ExtractFromSource(userID uuid.UUID, src domain.EmailSource) []*domain.InferredSocialProfile {
	combined := src.From + "\n" + src.Subject + "\n" + src.Body
	sourceType := classifySourceType(combined)

	type match struct {
		platform domain.SocialPlatform
		handle   string
		url      string
		raw      string
	}

	var matches []match
	seen := make(map[string]bool)
	add := func(platform domain.SocialPlatform, handle, url, raw string) {
		key := string(platform) + ":" + strings.ToLower(handle)
		if seen[key] {
			return
		}
		seen[key] = true
		matches = append(matches, match{platform: platform, handle: handle, url: url, raw: raw})
	}

	for _, m := range linkedinProfileRe.FindAllStringSubmatch(combined, -1) {
		add(domain.PlatformLinkedIn, m[1], "https://linkedin.com/in/"+m[1], m[0])
	}
	for _, m := range linkedinCompanyRe.FindAllStringSubmatch(combined, -1) {
		add(domain.PlatformLinkedIn, m[1], "https://linkedin.com/company/"+m[1], m[0])
	}
	for _, m := range twitterURLRe.FindAllStringSubmatch(combined, -1) {
		if twitterReservedPaths[strings.ToLower(m[1])] {
			continue
		}
		add(domain.PlatformTwitter, m[1], "https://twitter.com/"+m[1], m[0])
	}
	for _, m := range twitterMentionRe.FindAllStringSubmatch(combined, -1) {
		handle := m[1]
		if len(handle) < e.cfg.MinHandleLen || mentionStopWords[strings.ToLower(handle)] {
			continue
		}
		add(domain.PlatformTwitter, handle, "https://twitter.com/"+handle, m[0])
	}

	lowerCombined := strings.ToLower(combined)
	profiles := make([]*domain.InferredSocialProfile, 0, len(matches))
	for _, m := range matches {
		mentionCount := strings.Count(lowerCombined, strings.ToLower(m.handle))
		if mentionCount < 1 {
			mentionCount = 1
		}

		confidence := Confidence(sourceType, mentionCount, e.inSignature(src.Body, m.raw))

		status := domain.ScrapePending
		if confidence < e.cfg.ScrapeThreshold {
			status = domain.ScrapeSkipped
		}

		profiles = append(profiles, &domain.InferredSocialProfile{
			UserID:     userID,
			Platform:   m.platform,
			ProfileURL: m.url,
			Handle:     m.handle,
			Confidence: confidence,
			SourceType: sourceType,
			Status:     status,
		})
	}

	return profiles
}

// inSignature reports whether the first occurrence of the raw match sits in
// the trailing zone of the body.
func (e *Extractor) inSignature(body, raw string) bool {
	if body == "" || raw == "" {
		return false
	}
	offset := strings.Index(strings.ToLower(body), strings.ToLower(raw))
	if offset < 0 {
		return false
	}
	return float64(offset) > float64(len(body))*e.cfg.SignatureZone
}

// Source-type keyword buckets, checked in priority order.
var (
	calendarTerms   = []string{"calendar", "invite", "invitation", "meeting", "event reminder", "rsvp"}
	recruiterTerms  = []string{"recruit", "hiring", "job opportunity", "position", "talent", "opening"}
	newsletterTerms = []string{"newsletter", "subscribe", "unsubscribe", "digest", "weekly update"}
	eventTerms      = []string{"conference", "meetup", "summit", "webinar", "workshop"}
)

func classifySourceType(text string) string {
	lower := strings.ToLower(text)

	containsAny := func(terms []string) bool {
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny(calendarTerms):
		return SourceCalendar
	case containsAny(recruiterTerms):
		return SourceRecruiter
	case containsAny(newsletterTerms):
		return SourceNewsletter
	case containsAny(eventTerms):
		return SourceEvent
	default:
		return SourceEmailSignature
	}
}
