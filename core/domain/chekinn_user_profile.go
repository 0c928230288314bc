package domain

import (
	"strings"

	"github.com/google/uuid"
)

// UserProfile holds the onboarding-derived attributes used for matching.
type UserProfile struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      string    `json:"role,omitempty" db:"role"`
	Industry  string    `json:"industry,omitempty" db:"industry"`
	Skills    []string  `json:"skills,omitempty"`
	Interests []string  `json:"interests,omitempty"`
}

// Keywords returns the lower-cased union of skills, interests, role and
// industry, deduplicated, empty entries dropped.
func (p *UserProfile) Keywords() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for _, s := range p.Skills {
		add(s)
	}
	for _, s := range p.Interests {
		add(s)
	}
	add(p.Role)
	add(p.Industry)
	return out
}

// UserProfileRepository reads stored user profiles.
type UserProfileRepository interface {
	// Get returns nil without error when the user has no profile yet.
	Get(userID uuid.UUID) (*UserProfile, error)
}
