package signal

import (
	"strings"
	"time"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
)

// ClassifierConfig holds the classifier knobs.
type ClassifierConfig struct {
	// EvidenceMaxLen caps the evidence excerpt length in characters.
	EvidenceMaxLen int
	// SignalTTL bounds the validity of emitted signals. Zero means no expiry.
	SignalTTL time.Duration
}

// DefaultClassifierConfig returns the production settings: 200-character
// evidence and a 30-day validity window.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		EvidenceMaxLen: 200,
		SignalTTL:      30 * 24 * time.Hour,
	}
}

// Classifier runs the ordered rule families over text units. Pure
// classification: it persists nothing and leaves idempotency to the caller.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a classifier.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify emits at most one signal per rule family for the given text unit.
// A founder-authored hiring match is escalated to the founder subtype with
// HIGH confidence no matter which hiring rule fired.
func (c *Classifier) Classify(userID uuid.UUID, src domain.PostSource, now time.Time) []*domain.Signal {
	if strings.TrimSpace(src.Text) == "" {
		return nil
	}

	occurredAt := now
	if src.PostedAt != nil {
		occurredAt = *src.PostedAt
	}

	var expiresAt *time.Time
	if c.cfg.SignalTTL > 0 {
		exp := now.Add(c.cfg.SignalTTL)
		expiresAt = &exp
	}

	isFounder := src.AuthorHeadline != "" && founderRe.MatchString(src.AuthorHeadline)

	var signals []*domain.Signal
	for _, fam := range families {
		for _, r := range fam.rules {
			loc := r.pattern.FindStringIndex(src.Text)
			if loc == nil {
				continue
			}

			subtype := r.subtype
			confidence := r.confidence
			userStory := fam.userStory
			if fam.signalType == domain.SignalTypeHiring && isFounder {
				subtype = domain.SubtypeFounderHiring
				confidence = domain.ConfidenceHigh
				userStory = founderUserStory
			}

			signals = append(signals, &domain.Signal{
				UserID:           userID,
				Category:         fam.category,
				Type:             fam.signalType,
				Subtype:          subtype,
				Confidence:       confidence,
				UserStory:        userStory,
				Evidence:         c.excerpt(src.Text, loc[0]),
				AuthorName:       src.AuthorName,
				AuthorHeadline:   src.AuthorHeadline,
				AuthorProfileURL: src.AuthorProfileURL,
				SourceID:         src.SourceID,
				OccurredAt:       occurredAt,
				ExpiresAt:        expiresAt,
				CreatedAt:        now,
			})
			break
		}
	}

	return signals
}

// excerpt returns up to EvidenceMaxLen characters around the match, starting
// a little before it so the evidence reads in context.
func (c *Classifier) excerpt(text string, matchStart int) string {
	const lead = 40

	start := matchStart - lead
	if start < 0 {
		start = 0
	}
	end := start + c.cfg.EvidenceMaxLen
	if end > len(text) {
		end = len(text)
	}

	return strings.TrimSpace(text[start:end])
}
