package social

import (
	"context"
	"strings"
	"testing"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	upserts []*domain.InferredSocialProfile
	failOn  string
}

func (f *fakeProfileRepo) Upsert(p *domain.InferredSocialProfile) error {
	if f.failOn != "" && strings.Contains(p.ProfileURL, f.failOn) {
		return errFake
	}
	f.upserts = append(f.upserts, p)
	return nil
}

func (f *fakeProfileRepo) ListByUser(uuid.UUID) ([]*domain.InferredSocialProfile, error) {
	return f.upserts, nil
}

func (f *fakeProfileRepo) ListPending(uuid.UUID, int) ([]*domain.InferredSocialProfile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) MarkScrapeResult(int64, domain.ScrapeStatus) (bool, error) {
	return false, nil
}

type fakeProcessedStore struct {
	seen map[string]bool
}

func newFakeProcessedStore() *fakeProcessedStore {
	return &fakeProcessedStore{seen: make(map[string]bool)}
}

func (f *fakeProcessedStore) IsProcessed(_ context.Context, userID uuid.UUID, sourceID string) (bool, error) {
	return f.seen[userID.String()+":"+sourceID], nil
}

func (f *fakeProcessedStore) MarkProcessed(_ context.Context, userID uuid.UUID, sourceIDs ...string) error {
	for _, id := range sourceIDs {
		f.seen[userID.String()+":"+id] = true
	}
	return nil
}

var errFake = &fakeError{"boom"}

type fakeError struct{ msg string }

func (e *fakeError) Error() string { return e.msg }

func newTestExtractor(repo *fakeProfileRepo, store *fakeProcessedStore) *Extractor {
	return NewExtractor(DefaultExtractorConfig(), repo, store, nil)
}

func TestExtractFromSource_Patterns(t *testing.T) {
	extractor := newTestExtractor(&fakeProfileRepo{}, newFakeProcessedStore())
	userID := uuid.New()

	tests := []struct {
		name         string
		src          domain.EmailSource
		wantCount    int
		wantPlatform domain.SocialPlatform
		wantHandle   string
	}{
		{
			name: "linkedin profile url",
			src: domain.EmailSource{
				SourceID: "s1",
				Body:     "Connect with me at linkedin.com/in/jane-doe anytime.",
			},
			wantCount:    1,
			wantPlatform: domain.PlatformLinkedIn,
			wantHandle:   "jane-doe",
		},
		{
			name: "linkedin company url",
			src: domain.EmailSource{
				SourceID: "s2",
				Body:     "We just launched, see linkedin.com/company/chekinn for details.",
			},
			wantCount:    1,
			wantPlatform: domain.PlatformLinkedIn,
			wantHandle:   "chekinn",
		},
		{
			name: "x.com profile url",
			src: domain.EmailSource{
				SourceID: "s3",
				Body:     "I post updates on x.com/builderperson now.",
			},
			wantCount:    1,
			wantPlatform: domain.PlatformTwitter,
			wantHandle:   "builderperson",
		},
		{
			name: "bare mention",
			src: domain.EmailSource{
				SourceID: "s4",
				Body:     "Follow me @janedoe",
			},
			wantCount:    1,
			wantPlatform: domain.PlatformTwitter,
			wantHandle:   "janedoe",
		},
		{
			name: "stop word mention is ignored",
			src: domain.EmailSource{
				SourceID: "s5",
				Body:     "Check out @the cool thing",
			},
			wantCount: 0,
		},
		{
			name: "short mention is ignored",
			src: domain.EmailSource{
				SourceID: "s6",
				Body:     "ping @jd when you land",
			},
			wantCount: 0,
		},
		{
			name: "no matches at all",
			src: domain.EmailSource{
				SourceID: "s7",
				Body:     "Lunch on Friday?",
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.ExtractFromSource(userID, tt.src)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d profiles, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			if got[0].Platform != tt.wantPlatform {
				t.Errorf("Platform = %v, want %v", got[0].Platform, tt.wantPlatform)
			}
			if got[0].Handle != tt.wantHandle {
				t.Errorf("Handle = %q, want %q", got[0].Handle, tt.wantHandle)
			}
			if got[0].UserID != userID {
				t.Errorf("UserID = %v, want %v", got[0].UserID, userID)
			}
		})
	}
}

func TestExtractFromSource_DuplicateHandleCollapses(t *testing.T) {
	extractor := newTestExtractor(&fakeProfileRepo{}, newFakeProcessedStore())

	src := domain.EmailSource{
		SourceID: "s1",
		Body:     "Find me at linkedin.com/in/janedoe or linkedin.com/in/janedoe again.",
	}

	got := extractor.ExtractFromSource(uuid.New(), src)
	if len(got) != 1 {
		t.Fatalf("got %d profiles, want 1 after dedup", len(got))
	}
	// Repetition feeds the mention-count bonus instead of a second record.
	if got[0].Confidence <= 0.75 {
		t.Errorf("Confidence = %v, want repetition bonus above signature base 0.75", got[0].Confidence)
	}
}

func TestExtractFromSource_SourceTypePriority(t *testing.T) {
	extractor := newTestExtractor(&fakeProfileRepo{}, newFakeProcessedStore())

	tests := []struct {
		name     string
		subject  string
		wantType string
	}{
		{"calendar beats recruiter", "Invite: interview for the open position", SourceCalendar},
		{"recruiter beats newsletter", "We're hiring! Subscribe for more roles", SourceRecruiter},
		{"newsletter beats event", "Weekly newsletter: conference season", SourceNewsletter},
		{"event terms alone", "See you at the summit", SourceEvent},
		{"default is signature", "Re: quick question", SourceEmailSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := domain.EmailSource{
				SourceID: "s1",
				Subject:  tt.subject,
				Body:     "reach me at linkedin.com/in/someone",
			}
			got := extractor.ExtractFromSource(uuid.New(), src)
			if len(got) != 1 {
				t.Fatalf("got %d profiles, want 1", len(got))
			}
			if got[0].SourceType != tt.wantType {
				t.Errorf("SourceType = %q, want %q", got[0].SourceType, tt.wantType)
			}
		})
	}
}

func TestExtractFromSource_SignatureZone(t *testing.T) {
	extractor := newTestExtractor(&fakeProfileRepo{}, newFakeProcessedStore())

	filler := strings.Repeat("Plain sentence without anything interesting. ", 20)

	tail := domain.EmailSource{
		SourceID: "s1",
		Body:     filler + "\n--\nJane\nlinkedin.com/in/janedoe",
	}
	got := extractor.ExtractFromSource(uuid.New(), tail)
	if len(got) != 1 {
		t.Fatalf("got %d profiles, want 1", len(got))
	}
	// signature zone: 0.5 base + 0.25 type + 0.15 position.
	if got[0].Confidence < 0.9 {
		t.Errorf("trailing match confidence = %v, want signature bonus applied", got[0].Confidence)
	}

	head := domain.EmailSource{
		SourceID: "s2",
		Body:     "linkedin.com/in/janedoe\n" + filler,
	}
	got = extractor.ExtractFromSource(uuid.New(), head)
	if len(got) != 1 {
		t.Fatalf("got %d profiles, want 1", len(got))
	}
	if got[0].Confidence != 0.75 {
		t.Errorf("leading match confidence = %v, want 0.75 without position bonus", got[0].Confidence)
	}
}

func TestExtractFromSource_ScrapeStatusByThreshold(t *testing.T) {
	extractor := newTestExtractor(&fakeProfileRepo{}, newFakeProcessedStore())

	// Newsletter single mention scores 0.55, below the 0.7 scrape threshold.
	low := domain.EmailSource{
		SourceID: "s1",
		Subject:  "Your weekly newsletter",
		Body:     "featuring linkedin.com/in/someone",
	}
	got := extractor.ExtractFromSource(uuid.New(), low)
	if len(got) != 1 {
		t.Fatalf("got %d profiles, want 1", len(got))
	}
	if got[0].Status != domain.ScrapeSkipped {
		t.Errorf("low-confidence profile status = %v, want skipped", got[0].Status)
	}

	high := domain.EmailSource{
		SourceID: "s2",
		Body:     "reach me at linkedin.com/in/someone",
	}
	got = extractor.ExtractFromSource(uuid.New(), high)
	if len(got) != 1 {
		t.Fatalf("got %d profiles, want 1", len(got))
	}
	if got[0].Status != domain.ScrapePending {
		t.Errorf("high-confidence profile status = %v, want pending", got[0].Status)
	}
}

func TestExtractBatch_Idempotent(t *testing.T) {
	repo := &fakeProfileRepo{}
	store := newFakeProcessedStore()
	extractor := newTestExtractor(repo, store)
	userID := uuid.New()
	ctx := context.Background()

	sources := []domain.EmailSource{
		{SourceID: "m1", Body: "see linkedin.com/in/janedoe"},
		{SourceID: "m2", Body: "nothing to find here"},
	}

	first, err := extractor.ExtractBatch(ctx, userID, sources)
	if err != nil {
		t.Fatalf("ExtractBatch: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first pass emitted %d profiles, want 1", len(first))
	}

	// Replaying the same batch emits nothing: both sources are consumed,
	// including the one that matched nothing.
	second, err := extractor.ExtractBatch(ctx, userID, sources)
	if err != nil {
		t.Fatalf("ExtractBatch replay: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("replay emitted %d profiles, want 0", len(second))
	}
	if len(repo.upserts) != 1 {
		t.Errorf("repo saw %d upserts, want 1", len(repo.upserts))
	}
}

func TestExtractBatch_SkipsEmptySourceID(t *testing.T) {
	repo := &fakeProfileRepo{}
	store := newFakeProcessedStore()
	extractor := newTestExtractor(repo, store)

	sources := []domain.EmailSource{
		{SourceID: "", Body: "see linkedin.com/in/janedoe"},
	}

	got, err := extractor.ExtractBatch(context.Background(), uuid.New(), sources)
	if err != nil {
		t.Fatalf("ExtractBatch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("emitted %d profiles from unidentifiable source, want 0", len(got))
	}
	if len(store.seen) != 0 {
		t.Errorf("marked %d sources processed, want 0", len(store.seen))
	}
}

func TestExtractBatch_UpsertFailureDoesNotAbort(t *testing.T) {
	repo := &fakeProfileRepo{failOn: "janedoe"}
	store := newFakeProcessedStore()
	extractor := newTestExtractor(repo, store)
	userID := uuid.New()

	sources := []domain.EmailSource{
		{SourceID: "m1", Body: "see linkedin.com/in/janedoe"},
		{SourceID: "m2", Body: "see linkedin.com/in/other-person"},
	}

	got, err := extractor.ExtractBatch(context.Background(), userID, sources)
	if err != nil {
		t.Fatalf("ExtractBatch: %v", err)
	}
	if len(got) != 1 || got[0].Handle != "other-person" {
		t.Fatalf("emitted %v, want only other-person", got)
	}

	// The failed source is still marked so a retry storm cannot form.
	done, _ := store.IsProcessed(context.Background(), userID, "m1")
	if !done {
		t.Error("failed source not marked processed")
	}
}
