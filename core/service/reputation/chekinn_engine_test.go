package reputation

import (
	"math"
	"testing"
	"time"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestState() *domain.ReputationState {
	return domain.NewReputationState(uuid.New(), testNow)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApply_ActionDeltas(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name               string
		action             domain.ReputationAction
		meta               *ActionMetadata
		wantImpact         float64
		wantThoughtQuality float64
		wantDiscretion     float64
		wantPull           float64
	}{
		{
			name:       "message_sent bumps impact",
			action:     domain.ActionMessageSent,
			wantImpact: 0.1,
		},
		{
			name:               "quality_response with explicit quality",
			action:             domain.ActionQualityResponse,
			meta:               &ActionMetadata{QualityScore: ptr(0.8)},
			wantThoughtQuality: 0.4,
			wantDiscretion:     0.1,
		},
		{
			name:               "quality_response defaults quality to 0.3",
			action:             domain.ActionQualityResponse,
			wantThoughtQuality: 0.15,
			wantDiscretion:     0.1,
		},
		{
			name:     "profile_complete awards pull bonus",
			action:   domain.ActionProfileComplete,
			wantPull: 2,
		},
		{
			name:       "connection_made bumps pull and impact",
			action:     domain.ActionConnectionMade,
			wantPull:   0.2,
			wantImpact: 0.1,
		},
		{
			name:   "unknown action is a no-op",
			action: domain.ReputationAction("vote_cast"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestState()
			engine.Apply(state, tt.action, tt.meta, testNow)

			if !almostEqual(state.Impact, tt.wantImpact) {
				t.Errorf("Impact = %v, want %v", state.Impact, tt.wantImpact)
			}
			if !almostEqual(state.ThoughtQuality, tt.wantThoughtQuality) {
				t.Errorf("ThoughtQuality = %v, want %v", state.ThoughtQuality, tt.wantThoughtQuality)
			}
			if !almostEqual(state.Discretion, tt.wantDiscretion) {
				t.Errorf("Discretion = %v, want %v", state.Discretion, tt.wantDiscretion)
			}
			if !almostEqual(state.Pull, tt.wantPull) {
				t.Errorf("Pull = %v, want %v", state.Pull, tt.wantPull)
			}
		})
	}
}

func TestApply_DecayGracePeriod(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	for _, days := range []int{0, 1, 2, 3} {
		state := newTestState()
		state.Impact, state.Pull = 10, 10
		state.ThoughtQuality, state.Discretion = 10, 10
		state.LastActiveAt = testNow.Add(-time.Duration(days) * 24 * time.Hour)

		engine.Apply(state, domain.ActionDecayCheck, nil, testNow)

		if state.Impact != 10 || state.Pull != 10 || state.ThoughtQuality != 10 || state.Discretion != 10 {
			t.Errorf("decay at day %d changed scores: %+v", days, state)
		}
	}
}

func TestApply_DecayCapped(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// 33 days inactive: effective days capped at 30-3=27, factor 0.54.
	state := newTestState()
	state.Impact, state.Pull = 100, 100
	state.ThoughtQuality, state.Discretion = 100, 100
	state.LastActiveAt = testNow.Add(-33 * 24 * time.Hour)

	engine.Apply(state, domain.ActionDecayCheck, nil, testNow)

	if !almostEqual(state.Impact, 46) {
		t.Errorf("Impact = %v, want 46 (factor 0.54)", state.Impact)
	}
	if !almostEqual(state.Pull, 46) {
		t.Errorf("Pull = %v, want 46", state.Pull)
	}
	if !almostEqual(state.ThoughtQuality, 73) {
		t.Errorf("ThoughtQuality = %v, want 73 (factor 0.27)", state.ThoughtQuality)
	}
	if !almostEqual(state.Discretion, 73) {
		t.Errorf("Discretion = %v, want 73", state.Discretion)
	}

	// 100 days inactive produces the same capped factor.
	longer := newTestState()
	longer.Impact = 100
	longer.LastActiveAt = testNow.Add(-100 * 24 * time.Hour)
	engine.Apply(longer, domain.ActionDecayCheck, nil, testNow)

	if !almostEqual(longer.Impact, 46) {
		t.Errorf("Impact after 100 days = %v, want 46 (capped)", longer.Impact)
	}
}

func TestApply_DecayDoesNotTouchActivityClock(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	state := newTestState()
	lastActive := testNow.Add(-10 * 24 * time.Hour)
	state.LastActiveAt = lastActive

	engine.Apply(state, domain.ActionDecayCheck, nil, testNow)

	if !state.LastActiveAt.Equal(lastActive) {
		t.Errorf("decay_check moved LastActiveAt to %v", state.LastActiveAt)
	}

	engine.Apply(state, domain.ActionMessageSent, nil, testNow)
	if !state.LastActiveAt.Equal(testNow) {
		t.Errorf("real action did not update LastActiveAt")
	}
}

func TestApply_UnlockLatch(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	state := newTestState()
	state.Impact = 14.95
	engine.Apply(state, domain.ActionMessageSent, nil, testNow)

	if !state.Unlocked {
		t.Fatalf("expected unlock at total %.2f", state.Total())
	}
	if state.UnlockedAt == nil || !state.UnlockedAt.Equal(testNow) {
		t.Errorf("UnlockedAt = %v, want %v", state.UnlockedAt, testNow)
	}

	// Decay below the threshold must not revert the latch.
	state.LastActiveAt = testNow.Add(-33 * 24 * time.Hour)
	engine.Apply(state, domain.ActionDecayCheck, nil, testNow)

	if state.Total() >= 15 {
		t.Fatalf("decay did not drop total below threshold: %v", state.Total())
	}
	if !state.Unlocked {
		t.Error("unlock latch reverted after decay")
	}
}

func TestApply_FreezeWindow(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	state := newTestState()
	state.Impact = 5
	engine.Apply(state, domain.ActionMisuse, nil, testNow)

	if state.FrozenUntil == nil || !state.FrozenUntil.Equal(testNow.Add(7*24*time.Hour)) {
		t.Fatalf("FrozenUntil = %v, want now+7d", state.FrozenUntil)
	}
	if state.Impact != 5 {
		t.Errorf("misuse changed scores: impact = %v", state.Impact)
	}

	// Every action during the freeze is absorbed without effect.
	during := testNow.Add(24 * time.Hour)
	for _, action := range []domain.ReputationAction{
		domain.ActionMessageSent,
		domain.ActionProfileComplete,
		domain.ActionDecayCheck,
	} {
		engine.Apply(state, action, nil, during)
	}

	if state.Impact != 5 || state.Pull != 0 {
		t.Errorf("frozen state mutated: impact=%v pull=%v", state.Impact, state.Pull)
	}
	if state.Unlocked {
		t.Error("frozen state unlocked")
	}

	// After the freeze expires, actions apply again.
	after := testNow.Add(8 * 24 * time.Hour)
	engine.Apply(state, domain.ActionMessageSent, nil, after)
	if !almostEqual(state.Impact, 5.1) {
		t.Errorf("post-freeze impact = %v, want 5.1", state.Impact)
	}
}

func TestApply_ClampUpperBound(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	state := newTestState()
	state.Pull = 99.5
	engine.Apply(state, domain.ActionProfileComplete, nil, testNow)

	if state.Pull != 100 {
		t.Errorf("Pull = %v, want clamped to 100", state.Pull)
	}
}

func TestApply_UnlockAfter150Messages(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	state := newTestState()

	unlockedAt := 0
	for i := 1; i <= 200; i++ {
		engine.Apply(state, domain.ActionMessageSent, nil, testNow)
		if state.Unlocked && unlockedAt == 0 {
			unlockedAt = i
		}
	}

	// 0.1 x 149 = 14.9 < 15 <= 0.1 x 150; allow one extra step for float
	// accumulation drift.
	if unlockedAt < 150 || unlockedAt > 151 {
		t.Errorf("unlocked at message %d, want 150 (impact %.2f)", unlockedAt, state.Impact)
	}
	if state.ThoughtQuality != 0 || state.Discretion != 0 || state.Pull != 0 {
		t.Errorf("other scores moved: %+v", state)
	}
}

func ptr(v float64) *float64 { return &v }
