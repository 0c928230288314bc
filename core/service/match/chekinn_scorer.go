// Package match ranks hiring signals against a user's profile keywords.
package match

import (
	"sort"
	"strings"

	"chekinn_server/core/domain"
)

// ScorerConfig holds the match weights.
type ScorerConfig struct {
	KeywordWeight    int
	FounderBonus     int
	FirstDegreeBonus int
	MaxScore         int
}

// DefaultScorerConfig returns the production weights.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		KeywordWeight:    20,
		FounderBonus:     30,
		FirstDegreeBonus: 25,
		MaxScore:         100,
	}
}

// MatchKeywords returns the subset of keywords appearing as a substring in
// the signal's evidence or author headline, both lower-cased.
func MatchKeywords(keywords []string, signal *domain.Signal) []string {
	evidence := strings.ToLower(signal.Evidence)
	headline := strings.ToLower(signal.AuthorHeadline)

	var matched []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(evidence, kw) || strings.Contains(headline, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Score computes the match score for one candidate. Always in [0, MaxScore].
func (c ScorerConfig) Score(matchedKeywords int, isFounder, isFirstDegree bool) int {
	score := c.KeywordWeight * matchedKeywords
	if isFounder {
		score += c.FounderBonus
	}
	if isFirstDegree {
		score += c.FirstDegreeBonus
	}
	if score > c.MaxScore {
		return c.MaxScore
	}
	return score
}

// IsFounderSignal reports whether the signal carries founder authorship.
func IsFounderSignal(signal *domain.Signal) bool {
	return signal.Subtype == domain.SubtypeFounderHiring
}

// sortCandidates orders by score descending, ties broken by signal ID
// descending so newer signals surface first.
func sortCandidates(candidates []*domain.HiringMatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		return candidates[i].SignalID > candidates[j].SignalID
	})
}
