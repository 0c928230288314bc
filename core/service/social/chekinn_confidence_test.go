package social

import (
	"math"
	"testing"
)

func TestConfidence_Scoring(t *testing.T) {
	tests := []struct {
		name         string
		sourceType   string
		mentionCount int
		inSignature  bool
		want         float64
	}{
		{"signature source single mention", SourceEmailSignature, 1, false, 0.75},
		{"recruiter source", SourceRecruiter, 1, false, 0.70},
		{"calendar source", SourceCalendar, 1, false, 0.65},
		{"event source", SourceEvent, 1, false, 0.60},
		{"newsletter source", SourceNewsletter, 1, false, 0.55},
		{"unknown source type gets base only", "carrier_pigeon", 1, false, 0.50},
		{"two mentions add first bonus", SourceNewsletter, 2, false, 0.65},
		{"four mentions add both bonuses", SourceNewsletter, 4, false, 0.75},
		{"signature position bonus", SourceNewsletter, 1, true, 0.70},
		{"everything stacked hits the ceiling", SourceEmailSignature, 5, true, 0.95},
		{"recruiter stacked also capped", SourceRecruiter, 4, true, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.sourceType, tt.mentionCount, tt.inSignature)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence(%q, %d, %v) = %v, want %v",
					tt.sourceType, tt.mentionCount, tt.inSignature, got, tt.want)
			}
		})
	}
}

func TestConfidence_Bounds(t *testing.T) {
	sourceTypes := []string{
		SourceEmailSignature, SourceRecruiter, SourceCalendar,
		SourceEvent, SourceNewsletter, "",
	}

	for _, st := range sourceTypes {
		for count := 0; count <= 10; count++ {
			for _, sig := range []bool{false, true} {
				got := Confidence(st, count, sig)
				if got < 0.5 || got > 0.95 {
					t.Errorf("Confidence(%q, %d, %v) = %v out of [0.5, 0.95]", st, count, sig, got)
				}
			}
		}
	}
}

func TestConfidence_MonotonicInMentions(t *testing.T) {
	prev := 0.0
	for count := 1; count <= 6; count++ {
		got := Confidence(SourceNewsletter, count, false)
		if got < prev {
			t.Errorf("confidence dropped from %v to %v at count %d", prev, got, count)
		}
		prev = got
	}
}
