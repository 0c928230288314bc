package domain

// HiringMatchCandidate is a ranked hiring signal for one user. Derived on
// every match request; never persisted.
type HiringMatchCandidate struct {
	SignalID         int64    `json:"signal_id"`
	AuthorName       string   `json:"author_name,omitempty"`
	AuthorHeadline   string   `json:"author_headline,omitempty"`
	AuthorProfileURL string   `json:"author_profile_url,omitempty"`
	Evidence         string   `json:"evidence"`
	IsFounder        bool     `json:"is_founder"`
	IsFirstDegree    bool     `json:"is_first_degree"`
	MatchedKeywords  []string `json:"matched_keywords"`
	MatchScore       int      `json:"match_score"`
	Context          string   `json:"context,omitempty"`
}
