package signal

import (
	"strings"
	"testing"
	"time"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func classify(t *testing.T, text, headline string) []*domain.Signal {
	t.Helper()
	c := NewClassifier(DefaultClassifierConfig())
	return c.Classify(uuid.New(), domain.PostSource{
		SourceID:       "post-1",
		Text:           text,
		AuthorHeadline: headline,
	}, testNow)
}

func TestClassify_HiringSubtypes(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantSubtype    string
		wantConfidence domain.ConfidenceLabel
	}{
		{"general hiring", "We're hiring backend folks", domain.SubtypeHiringGeneral, domain.ConfidenceMedium},
		{"seeking", "Seeking a staff engineer for my org", domain.SubtypeHiringSeeking, domain.ConfidenceMedium},
		{"join our team", "Come join our team in Berlin", domain.SubtypeHiringTeam, domain.ConfidenceMedium},
		{"open role", "We have an open role on platform", domain.SubtypeHiringOpenRole, domain.ConfidenceMedium},
		{"dms open is high confidence", "My DMs are open if you want in", domain.SubtypeHiringDMsOpen, domain.ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(t, tt.text, "")
			if len(got) != 1 {
				t.Fatalf("got %d signals, want 1", len(got))
			}
			if got[0].Type != domain.SignalTypeHiring {
				t.Errorf("Type = %q, want hiring", got[0].Type)
			}
			if got[0].Subtype != tt.wantSubtype {
				t.Errorf("Subtype = %q, want %q", got[0].Subtype, tt.wantSubtype)
			}
			if got[0].Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got[0].Confidence, tt.wantConfidence)
			}
			if got[0].Category != domain.CategoryCareer {
				t.Errorf("Category = %v, want CAREER", got[0].Category)
			}
		})
	}
}

func TestClassify_FamilyExclusivity(t *testing.T) {
	// Two hiring patterns in one text still emit a single hiring signal, and
	// the earlier rule in the table wins.
	got := classify(t, "We're hiring! Come join our team.", "")
	if len(got) != 1 {
		t.Fatalf("got %d signals, want 1", len(got))
	}
	if got[0].Subtype != domain.SubtypeHiringGeneral {
		t.Errorf("Subtype = %q, want first-rule %q", got[0].Subtype, domain.SubtypeHiringGeneral)
	}
}

func TestClassify_OneSignalPerFamily(t *testing.T) {
	text := "We're hiring! Also excited to announce our new office. Join us for a rooftop meetup."
	got := classify(t, text, "")
	if len(got) != 3 {
		t.Fatalf("got %d signals, want 3 (one per family)", len(got))
	}

	byType := make(map[string]*domain.Signal)
	for _, sig := range got {
		byType[sig.Type] = sig
	}
	if byType[domain.SignalTypeHiring] == nil || byType[domain.SignalTypeRoleChange] == nil || byType[domain.SignalTypeEvent] == nil {
		t.Fatalf("missing a family in %v", got)
	}
	if byType[domain.SignalTypeEvent].Category != domain.CategorySocial {
		t.Errorf("event category = %v, want SOCIAL", byType[domain.SignalTypeEvent].Category)
	}
}

func TestClassify_FounderEscalation(t *testing.T) {
	headlines := []string{
		"Founder at Acme",
		"Co-founder & CEO, Chekinn",
		"CTO @ somewhere",
	}

	for _, headline := range headlines {
		got := classify(t, "we're hiring", headline)
		if len(got) != 1 {
			t.Fatalf("headline %q: got %d signals, want 1", headline, len(got))
		}
		if got[0].Subtype != domain.SubtypeFounderHiring {
			t.Errorf("headline %q: Subtype = %q, want founder variant", headline, got[0].Subtype)
		}
		if got[0].Confidence != domain.ConfidenceHigh {
			t.Errorf("headline %q: Confidence = %v, want HIGH", headline, got[0].Confidence)
		}
	}

	// Non-founder authorship keeps the rule's own subtype and label.
	got := classify(t, "we're hiring", "Senior Engineer at Acme")
	if got[0].Subtype != domain.SubtypeHiringGeneral || got[0].Confidence != domain.ConfidenceMedium {
		t.Errorf("non-founder got %q/%v, want hiring_general/MEDIUM", got[0].Subtype, got[0].Confidence)
	}

	// Escalation only applies to the hiring family.
	got = classify(t, "Excited to announce my next adventure", "Founder at Acme")
	if len(got) != 1 || got[0].Type != domain.SignalTypeRoleChange {
		t.Fatalf("got %v, want one role_change signal", got)
	}
	if got[0].Subtype == domain.SubtypeFounderHiring {
		t.Error("founder escalation leaked into role-change family")
	}
}

func TestClassify_RoleChangeAlwaysHigh(t *testing.T) {
	tests := []struct {
		text        string
		wantSubtype string
	}{
		{"Excited to join the team at Nimbus", domain.SubtypeRoleJoined},
		{"Starting at Vanta next month", domain.SubtypeRoleStarting},
		{"Thrilled to announce my move", domain.SubtypeRoleAnnounced},
		{"Time for a new chapter", domain.SubtypeRoleNewPath},
	}

	for _, tt := range tests {
		got := classify(t, tt.text, "")
		if len(got) != 1 {
			t.Fatalf("%q: got %d signals, want 1", tt.text, len(got))
		}
		if got[0].Subtype != tt.wantSubtype {
			t.Errorf("%q: Subtype = %q, want %q", tt.text, got[0].Subtype, tt.wantSubtype)
		}
		if got[0].Confidence != domain.ConfidenceHigh {
			t.Errorf("%q: Confidence = %v, want HIGH", tt.text, got[0].Confidence)
		}
	}
}

func TestClassify_EvidenceCap(t *testing.T) {
	text := "We're hiring. " + strings.Repeat("The role involves a great many responsibilities. ", 20)
	got := classify(t, text, "")
	if len(got) != 1 {
		t.Fatalf("got %d signals, want 1", len(got))
	}
	if len(got[0].Evidence) > 200 {
		t.Errorf("evidence length = %d, want <= 200", len(got[0].Evidence))
	}
	if !strings.Contains(got[0].Evidence, "hiring") {
		t.Errorf("evidence %q does not include the match", got[0].Evidence)
	}
}

func TestClassify_NoMatchAndEmptyText(t *testing.T) {
	if got := classify(t, "Had a great coffee this morning", ""); len(got) != 0 {
		t.Errorf("neutral text emitted %d signals", len(got))
	}
	if got := classify(t, "   ", ""); len(got) != 0 {
		t.Errorf("blank text emitted %d signals", len(got))
	}
}

func TestClassify_TimestampsAndExpiry(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())
	postedAt := testNow.Add(-48 * time.Hour)

	got := c.Classify(uuid.New(), domain.PostSource{
		SourceID: "post-1",
		Text:     "we're hiring",
		PostedAt: &postedAt,
	}, testNow)
	if len(got) != 1 {
		t.Fatalf("got %d signals, want 1", len(got))
	}
	if !got[0].OccurredAt.Equal(postedAt) {
		t.Errorf("OccurredAt = %v, want post time %v", got[0].OccurredAt, postedAt)
	}
	if got[0].ExpiresAt == nil || !got[0].ExpiresAt.Equal(testNow.Add(30*24*time.Hour)) {
		t.Errorf("ExpiresAt = %v, want now+30d", got[0].ExpiresAt)
	}
	if got[0].IsExpired(testNow) {
		t.Error("fresh signal reported expired")
	}
	if !got[0].IsExpired(testNow.Add(31 * 24 * time.Hour)) {
		t.Error("signal past its window not reported expired")
	}
}
