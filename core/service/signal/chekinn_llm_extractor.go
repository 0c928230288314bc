package signal

import (
	"context"
	"strings"
	"time"

	"chekinn_server/core/domain"
	"chekinn_server/core/port/out"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

const llmExtractSystemPrompt = `You analyze short career and social media texts.
Extract signals about hiring, role changes, and events.
Respond with a JSON object: {"signals":[{"type":"hiring|role_change|event","subtype":"...","confidence":"LOW|MEDIUM|HIGH","evidence":"..."}]}.
Return {"signals":[]} when nothing applies. Respond with JSON only.`

// llmSignal is the provider's wire shape for one extracted signal.
type llmSignal struct {
	Type       string `json:"type"`
	Subtype    string `json:"subtype"`
	Confidence string `json:"confidence"`
	Evidence   string `json:"evidence"`
}

type llmExtractResult struct {
	Signals []llmSignal `json:"signals"`
}

// LLMExtractor is the model-backed extraction variant. It covers texts the
// pattern classifier cannot parse but always degrades to an empty result when
// the provider fails or returns garbage.
type LLMExtractor struct {
	cfg      ClassifierConfig
	analyzer out.TextAnalyzer
	log      *logger.Logger
}

// NewLLMExtractor creates an extractor backed by the given analyzer.
func NewLLMExtractor(cfg ClassifierConfig, analyzer out.TextAnalyzer) *LLMExtractor {
	return &LLMExtractor{
		cfg:      cfg,
		analyzer: analyzer,
		log:      logger.Default().WithField("component", "llm-extractor"),
	}
}

// Extract asks the provider for signals in the text. Provider failure or
// malformed output yields an empty slice, never an error to the caller.
func (e *LLMExtractor) Extract(ctx context.Context, userID uuid.UUID, src domain.PostSource, now time.Time) []*domain.Signal {
	if strings.TrimSpace(src.Text) == "" {
		return nil
	}

	var result llmExtractResult
	if err := e.analyzer.AnalyzeJSON(ctx, llmExtractSystemPrompt, src.Text, &result); err != nil {
		e.log.WithError(err).Warn("llm extraction failed for source %s", src.SourceID)
		return nil
	}

	occurredAt := now
	if src.PostedAt != nil {
		occurredAt = *src.PostedAt
	}

	var expiresAt *time.Time
	if e.cfg.SignalTTL > 0 {
		exp := now.Add(e.cfg.SignalTTL)
		expiresAt = &exp
	}

	signals := make([]*domain.Signal, 0, len(result.Signals))
	for _, raw := range result.Signals {
		signalType, category, ok := normalizeSignalType(raw.Type)
		if !ok {
			continue
		}

		evidence := raw.Evidence
		if evidence == "" {
			evidence = src.Text
		}
		if len(evidence) > e.cfg.EvidenceMaxLen {
			evidence = evidence[:e.cfg.EvidenceMaxLen]
		}

		signals = append(signals, &domain.Signal{
			UserID:           userID,
			Category:         category,
			Type:             signalType,
			Subtype:          raw.Subtype,
			Confidence:       normalizeConfidence(raw.Confidence),
			UserStory:        familyUserStory(signalType),
			Evidence:         strings.TrimSpace(evidence),
			AuthorName:       src.AuthorName,
			AuthorHeadline:   src.AuthorHeadline,
			AuthorProfileURL: src.AuthorProfileURL,
			SourceID:         src.SourceID,
			OccurredAt:       occurredAt,
			ExpiresAt:        expiresAt,
			CreatedAt:        now,
		})
	}

	return signals
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

func familyUserStory(signalType string) string {
	for _, fam := range families {
		if fam.signalType == signalType {
			return fam.userStory
		}
	}
	return ""
}
