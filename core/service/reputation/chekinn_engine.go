// Package reputation implements the four-score reputation state machine that
// gates the Undercurrents feature.
package reputation

import (
	"math"
	"time"

	"chekinn_server/core/domain"
)

// Config holds the tunable thresholds of the state machine.
type Config struct {
	// UnlockThreshold is the combined score at which Undercurrents unlocks.
	UnlockThreshold float64
	// DecayRate is the per-day score decay applied past the grace period.
	DecayRate float64
	// GraceDays is the inactivity window with no decay.
	GraceDays int
	// CapDays caps how many days of inactivity count toward decay.
	CapDays int
	// FreezeDuration is how long misuse suspends score mutations.
	FreezeDuration time.Duration
	// DefaultQuality is used when quality_response carries no quality score.
	DefaultQuality float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		UnlockThreshold: 15,
		DecayRate:       0.02,
		GraceDays:       3,
		CapDays:         30,
		FreezeDuration:  7 * 24 * time.Hour,
		DefaultQuality:  0.3,
	}
}

// ActionMetadata carries optional per-action parameters.
type ActionMetadata struct {
	QualityScore *float64 `json:"quality_score,omitempty"`
}

// Engine applies actions to reputation state. Pure: all persistence and
// locking is the repository's concern.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given config.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Apply mutates state in place according to the action. It never returns an
// error: unknown actions are safe no-ops and a frozen state absorbs every
// action silently. Callers treat the call as successful either way.
func (e *Engine) Apply(state *domain.ReputationState, action domain.ReputationAction, meta *ActionMetadata, now time.Time) {
	if state.IsFrozen(now) {
		return
	}

	switch action {
	case domain.ActionMessageSent:
		state.Impact += 0.1

	case domain.ActionQualityResponse:
		quality := e.cfg.DefaultQuality
		if meta != nil && meta.QualityScore != nil {
			quality = *meta.QualityScore
		}
		state.ThoughtQuality += quality * 0.5
		state.Discretion += 0.1

	case domain.ActionProfileComplete:
		// One-time nature is enforced by the caller, not here.
		state.Pull += 2

	case domain.ActionConnectionMade:
		state.Pull += 0.2
		state.Impact += 0.1

	case domain.ActionDecayCheck:
		e.applyDecay(state, now)

	case domain.ActionMisuse:
		frozenUntil := now.Add(e.cfg.FreezeDuration)
		state.FrozenUntil = &frozenUntil

	default:
		// Unknown action: scores unchanged.
	}

	state.Impact = clamp(state.Impact)
	state.ThoughtQuality = clamp(state.ThoughtQuality)
	state.Discretion = clamp(state.Discretion)
	state.Pull = clamp(state.Pull)

	// decay_check is scheduler-driven and must not mask real inactivity, so
	// it leaves the activity clock untouched.
	if action != domain.ActionDecayCheck {
		state.LastActiveAt = now
	}
	state.UpdatedAt = now

	if !state.Unlocked && state.Total() >= e.cfg.UnlockThreshold {
		state.Unlocked = true
		unlockedAt := now
		state.UnlockedAt = &unlockedAt
	}
}

func (e *Engine) applyDecay(state *domain.ReputationState, now time.Time) {
	days := int(math.Floor(now.Sub(state.LastActiveAt).Hours() / 24))
	if days <= e.cfg.GraceDays {
		return
	}

	effective := days - e.cfg.GraceDays
	if cap := e.cfg.CapDays - e.cfg.GraceDays; effective > cap {
		effective = cap
	}
	factor := float64(effective) * e.cfg.DecayRate

	state.Impact *= 1 - factor
	state.Pull *= 1 - factor
	state.ThoughtQuality *= 1 - factor*0.5
	state.Discretion *= 1 - factor*0.5
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
