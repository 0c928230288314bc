package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chekinn_server/core/domain"
	"chekinn_server/core/port/out"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// Config holds the match window and result bounds.
type Config struct {
	// Window is the recency window for candidate hiring signals.
	Window time.Duration
	// Limit is the number of ranked candidates returned.
	Limit int
	// ScanLimit bounds how many signals are loaded before ranking.
	ScanLimit int
	Scorer    ScorerConfig
}

// DefaultConfig returns the production match settings: a 7-day window and a
// top-10 result set.
func DefaultConfig() Config {
	return Config{
		Window:    7 * 24 * time.Hour,
		Limit:     10,
		ScanLimit: 200,
		Scorer:    DefaultScorerConfig(),
	}
}

// Service ranks recent hiring signals for a user. analyzer may be nil, in
// which case no per-candidate context blurb is generated.
type Service struct {
	cfg      Config
	profiles domain.UserProfileRepository
	signals  domain.SignalRepository
	graph    out.ConnectionGraph
	analyzer out.TextAnalyzer
	log      *logger.Logger
}

// NewService creates a match service.
func NewService(cfg Config, profiles domain.UserProfileRepository, signals domain.SignalRepository, graph out.ConnectionGraph, analyzer out.TextAnalyzer) *Service {
	return &Service{
		cfg:      cfg,
		profiles: profiles,
		signals:  signals,
		graph:    graph,
		analyzer: analyzer,
		log:      logger.Default().WithField("component", "match"),
	}
}

// FindHiringMatches ranks hiring signals from the recency window against the
// user's keywords. A user without profile data gets an empty list, not an
// error. withContext additionally asks the text provider for a one-line blurb
// per returned candidate; blurb failures leave the field empty.
func (s *Service) FindHiringMatches(ctx context.Context, userID uuid.UUID, withContext bool) ([]*domain.HiringMatchCandidate, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return []*domain.HiringMatchCandidate{}, nil
	}

	keywords := profile.Keywords()
	if len(keywords) == 0 {
		return []*domain.HiringMatchCandidate{}, nil
	}

	since := time.Now().UTC().Add(-s.cfg.Window)
	signals, err := s.signals.ListHiringSince(since, s.cfg.ScanLimit)
	if err != nil {
		return nil, err
	}

	var candidates []*domain.HiringMatchCandidate
	for _, sig := range signals {
		matched := MatchKeywords(keywords, sig)
		if len(matched) == 0 {
			continue
		}

		isFounder := IsFounderSignal(sig)
		isFirstDegree := s.isFirstDegree(ctx, userID, sig.AuthorProfileURL)

		candidates = append(candidates, &domain.HiringMatchCandidate{
			SignalID:         sig.ID,
			AuthorName:       sig.AuthorName,
			AuthorHeadline:   sig.AuthorHeadline,
			AuthorProfileURL: sig.AuthorProfileURL,
			Evidence:         sig.Evidence,
			IsFounder:        isFounder,
			IsFirstDegree:    isFirstDegree,
			MatchedKeywords:  matched,
			MatchScore:       s.cfg.Scorer.Score(len(matched), isFounder, isFirstDegree),
		})
	}

	sortCandidates(candidates)
	if len(candidates) > s.cfg.Limit {
		candidates = candidates[:s.cfg.Limit]
	}

	if withContext && s.analyzer != nil {
		s.attachContext(ctx, candidates)
	}

	if candidates == nil {
		candidates = []*domain.HiringMatchCandidate{}
	}
	return candidates, nil
}

// isFirstDegree treats graph lookup failures as not-connected so a graph
// outage only costs the bonus, never the match request.
func (s *Service) isFirstDegree(ctx context.Context, userID uuid.UUID, profileURL string) bool {
	if profileURL == "" || s.graph == nil {
		return false
	}
	connected, err := s.graph.IsFirstDegree(ctx, userID, profileURL)
	if err != nil {
		s.log.WithError(err).Debug("first-degree lookup failed for %s", profileURL)
		return false
	}
	return connected
}

const matchContextSystemPrompt = `You write one-sentence introductions explaining why a hiring post is relevant to a job seeker.
Be specific and concrete. Respond with the sentence only.`

func (s *Service) attachContext(ctx context.Context, candidates []*domain.HiringMatchCandidate) {
	for _, c := range candidates {
		prompt := fmt.Sprintf("Hiring post: %q\nAuthor headline: %q\nMatched interests: %s",
			c.Evidence, c.AuthorHeadline, strings.Join(c.MatchedKeywords, ", "))

		blurb, err := s.analyzer.Complete(ctx, matchContextSystemPrompt, prompt)
		if err != nil {
			s.log.WithError(err).Debug("context generation failed for signal %d", c.SignalID)
			continue
		}
		c.Context = strings.TrimSpace(blurb)
	}
}
