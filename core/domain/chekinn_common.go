// Package domain contains the core entities of the ChekInn matching backend.
package domain

// ConfidenceLabel is the coarse confidence tag attached to pattern-matched
// signals. Distinct from the numeric [0,1] confidence used for inferred
// social profiles.
type ConfidenceLabel string

const (
	ConfidenceLow    ConfidenceLabel = "LOW"
	ConfidenceMedium ConfidenceLabel = "MEDIUM"
	ConfidenceHigh   ConfidenceLabel = "HIGH"
)

// SignalCategory is the coarse grouping of a signal.
type SignalCategory string

const (
	CategoryCareer SignalCategory = "CAREER"
	CategorySocial SignalCategory = "SOCIAL"
)

// SocialPlatform identifies the platform of an inferred profile.
type SocialPlatform string

const (
	PlatformLinkedIn SocialPlatform = "linkedin"
	PlatformTwitter  SocialPlatform = "twitter"
)
