package signal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
)

type fakeAnalyzer struct {
	response string
	err      error
}

func (f *fakeAnalyzer) Complete(context.Context, string, string) (string, error) {
	return f.response, f.err
}

func (f *fakeAnalyzer) AnalyzeJSON(_ context.Context, _, _ string, out any) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func TestLLMExtract_ParsesProviderSignals(t *testing.T) {
	analyzer := &fakeAnalyzer{
		response: `{"signals":[
			{"type":"hiring","subtype":"hiring_general","confidence":"HIGH","evidence":"growing the team"},
			{"type":"event","subtype":"event_general","confidence":"low","evidence":"demo night"},
			{"type":"weather","subtype":"sunny","confidence":"HIGH","evidence":"ignored"}
		]}`,
	}
	extractor := NewLLMExtractor(DefaultClassifierConfig(), analyzer)

	got := extractor.Extract(context.Background(), uuid.New(), domain.PostSource{
		SourceID: "post-1",
		Text:     "long unstructured ramble",
	}, testNow)

	if len(got) != 2 {
		t.Fatalf("got %d signals, want 2 (unknown type dropped)", len(got))
	}
	if got[0].Type != domain.SignalTypeHiring || got[0].Confidence != domain.ConfidenceHigh {
		t.Errorf("first signal = %q/%v, want hiring/HIGH", got[0].Type, got[0].Confidence)
	}
	if got[1].Category != domain.CategorySocial {
		t.Errorf("event category = %v, want SOCIAL", got[1].Category)
	}
	if got[1].Confidence != domain.ConfidenceLow {
		t.Errorf("lowercase label normalized to %v, want LOW", got[1].Confidence)
	}
	if got[0].ExpiresAt == nil {
		t.Error("signal missing expiry window")
	}
}

func TestLLMExtract_ProviderFailureFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name     string
		analyzer *fakeAnalyzer
	}{
		{"provider error", &fakeAnalyzer{err: errors.New("rate limited")}},
		{"non-json output", &fakeAnalyzer{response: "Sure! Here are the signals I found:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewLLMExtractor(DefaultClassifierConfig(), tt.analyzer)
			got := extractor.Extract(context.Background(), uuid.New(), domain.PostSource{
				SourceID: "post-1",
				Text:     "anything",
			}, testNow)
			if len(got) != 0 {
				t.Errorf("got %d signals, want 0 on provider failure", len(got))
			}
		})
	}
}

func TestLLMExtract_UnrecognizedConfidenceDefaultsMedium(t *testing.T) {
	analyzer := &fakeAnalyzer{
		response: `{"signals":[{"type":"role_change","subtype":"role_joined","confidence":"85%","evidence":"new gig"}]}`,
	}
	extractor := NewLLMExtractor(DefaultClassifierConfig(), analyzer)

	got := extractor.Extract(context.Background(), uuid.New(), domain.PostSource{SourceID: "p", Text: "t"}, testNow)
	if len(got) != 1 {
		t.Fatalf("got %d signals, want 1", len(got))
	}
	if got[0].Confidence != domain.ConfidenceMedium {
		t.Errorf("Confidence = %v, want MEDIUM fallback", got[0].Confidence)
	}
}
