// Package social infers social profiles from raw email sources.
package social

// Source types a mention can originate from, in classification priority
// order (calendar terms are checked first, signature is the default).
const (
	SourceEmailSignature = "email_signature"
	SourceRecruiter      = "recruiter"
	SourceCalendar       = "calendar"
	SourceEvent          = "event"
	SourceNewsletter     = "newsletter"
)

// confidenceBase is the starting confidence for any extracted mention.
const confidenceBase = 0.5

// confidenceCeiling keeps extraction confidence below certainty.
const confidenceCeiling = 0.95

var sourceTypeWeights = map[string]float64{
	SourceEmailSignature: 0.25,
	SourceRecruiter:      0.20,
	SourceCalendar:       0.15,
	SourceEvent:          0.10,
	SourceNewsletter:     0.05,
}

// Confidence scores an inferred profile mention in [0.5, 0.95].
// mentionCount is how many times the handle appeared in the source;
// inSignature is true when the first occurrence sits in the final 20% of the
// body.
func Confidence(sourceType string, mentionCount int, inSignature bool) float64 {
	score := confidenceBase
	score += sourceTypeWeights[sourceType]

	if mentionCount > 1 {
		score += 0.10
	}
	if mentionCount > 3 {
		score += 0.10
	}
	if inSignature {
		score += 0.15
	}

	if score > confidenceCeiling {
		return confidenceCeiling
	}
	return score
}
