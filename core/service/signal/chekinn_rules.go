// Package signal classifies free text into typed career and social signals.
package signal

import (
	"regexp"

	"chekinn_server/core/domain"
)

// rule is one (pattern, subtype, confidence) entry. Families are ordered
// lists evaluated top to bottom with early exit, so the first match wins.
type rule struct {
	pattern    *regexp.Regexp
	subtype    string
	confidence domain.ConfidenceLabel
}

// family groups rules that emit at most one signal per text unit.
type family struct {
	signalType string
	category   domain.SignalCategory
	userStory  string
	rules      []rule
}

var hiringFamily = family{
	signalType: domain.SignalTypeHiring,
	category:   domain.CategoryCareer,
	userStory:  "Someone in their network is hiring right now",
	rules: []rule{
		{regexp.MustCompile(`(?i)\bwe'?re hiring\b|\bwe are hiring\b|\bnow hiring\b|\bhiring\b`), domain.SubtypeHiringGeneral, domain.ConfidenceMedium},
		{regexp.MustCompile(`(?i)\blooking for\b|\bseeking\b`), domain.SubtypeHiringSeeking, domain.ConfidenceMedium},
		{regexp.MustCompile(`(?i)\bjoin (?:our|the|my) team\b`), domain.SubtypeHiringTeam, domain.ConfidenceMedium},
		{regexp.MustCompile(`(?i)\bopen (?:role|position)s?\b`), domain.SubtypeHiringOpenRole, domain.ConfidenceMedium},
		{regexp.MustCompile(`(?i)\bdms? (?:are )?open\b`), domain.SubtypeHiringDMsOpen, domain.ConfidenceHigh},
	},
}

var roleChangeFamily = family{
	signalType: domain.SignalTypeRoleChange,
	category:   domain.CategoryCareer,
	userStory:  "Someone in their network just changed roles",
	rules: []rule{
		{regexp.MustCompile(`(?i)\bexcited to (?:join|announce|share)\b`), domain.SubtypeRoleJoined, domain.ConfidenceHigh},
		{regexp.MustCompile(`(?i)\bstarting (?:at|my)\b`), domain.SubtypeRoleStarting, domain.ConfidenceHigh},
		{regexp.MustCompile(`(?i)\b(?:thrilled|happy) to announce\b`), domain.SubtypeRoleAnnounced, domain.ConfidenceHigh},
		{regexp.MustCompile(`(?i)\bnew chapter\b|\bnext adventure\b`), domain.SubtypeRoleNewPath, domain.ConfidenceHigh},
	},
}

var eventFamily = family{
	signalType: domain.SignalTypeEvent,
	category:   domain.CategorySocial,
	userStory:  "Someone in their network is gathering people",
	rules: []rule{
		{regexp.MustCompile(`(?i)\bhosting\b|\borganizing\b|\bjoin us for\b`), domain.SubtypeEventHosting, domain.ConfidenceMedium},
		{regexp.MustCompile(`(?i)\bmeetup\b|\bconference\b|\bworkshop\b|\bevent\b`), domain.SubtypeEventGeneral, domain.ConfidenceMedium},
		{regexp.MustCompile(`(?i)\b(?:speaking|presenting) at\b`), domain.SubtypeEventSpeaking, domain.ConfidenceMedium},
	},
}

// families in emission order. Each contributes at most one signal.
var families = []family{hiringFamily, roleChangeFamily, eventFamily}

// founderRe matches author headlines that indicate founder-level authorship.
var founderRe = regexp.MustCompile(`(?i)\b(?:co-?founder|founder|ceo|cto|chief executive|chief technology)\b`)

const founderUserStory = "A founder in their network is hiring directly"
