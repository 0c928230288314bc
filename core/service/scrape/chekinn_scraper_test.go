package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"chekinn_server/core/domain"

	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	pending []*domain.InferredSocialProfile
	marks   map[int64]domain.ScrapeStatus
}

func (f *fakeProfileRepo) Upsert(*domain.InferredSocialProfile) error { return nil }

func (f *fakeProfileRepo) ListByUser(uuid.UUID) ([]*domain.InferredSocialProfile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) ListPending(_ uuid.UUID, limit int) ([]*domain.InferredSocialProfile, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeProfileRepo) MarkScrapeResult(id int64, status domain.ScrapeStatus) (bool, error) {
	if f.marks == nil {
		f.marks = make(map[int64]domain.ScrapeStatus)
	}
	f.marks[id] = status
	return true, nil
}

type fakeSignalRepo struct {
	created []*domain.Signal
}

func (f *fakeSignalRepo) Create(s *domain.Signal) error { f.created = append(f.created, s); return nil }
func (f *fakeSignalRepo) CreateBatch(batch []*domain.Signal) error {
	f.created = append(f.created, batch...)
	return nil
}
func (f *fakeSignalRepo) ListHiringSince(time.Time, int) ([]*domain.Signal, error) { return nil, nil }
func (f *fakeSignalRepo) ListByUser(uuid.UUID, int, int) ([]*domain.Signal, error) { return nil, nil }
func (f *fakeSignalRepo) DeleteExpired(time.Time) (int64, error)                   { return 0, nil }

type fakeFetcher struct {
	content map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	content, ok := f.content[url]
	if !ok {
		return "", errors.New("fetch failed")
	}
	return content, nil
}

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

func pendingProfile(id int64, url string) *domain.InferredSocialProfile {
	return &domain.InferredSocialProfile{
		ID:         id,
		Platform:   domain.PlatformLinkedIn,
		ProfileURL: url,
		Handle:     "handle",
		Status:     domain.ScrapePending,
	}
}

func testScraper(profiles *fakeProfileRepo, signals *fakeSignalRepo, fetcher *fakeFetcher, analyzer *fakeAnalyzer) (*Scraper, *int) {
	s := NewScraper(DefaultConfig(), profiles, signals, fetcher, analyzer, nil)
	sleeps := 0
	s.sleep = func(time.Duration) { sleeps++ }
	return s, &sleeps
}

func TestRun_HappyPath(t *testing.T) {
	profiles := &fakeProfileRepo{pending: []*domain.InferredSocialProfile{
		pendingProfile(1, "https://linkedin.com/in/one"),
		pendingProfile(2, "https://linkedin.com/in/two"),
	}}
	signals := &fakeSignalRepo{}
	fetcher := &fakeFetcher{content: map[string]string{
		"https://linkedin.com/in/one": "profile one content",
		"https://linkedin.com/in/two": "profile two content",
	}}
	analyzer := &fakeAnalyzer{
		response: `{"signals":[{"type":"hiring","subtype":"hiring_general","confidence":"MEDIUM","evidence":"growing the team"}]}`,
	}

	scraper, sleeps := testScraper(profiles, signals, fetcher, analyzer)

	result, err := scraper.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Scraped != 2 || result.Failed != 0 || result.Signals != 2 {
		t.Errorf("result = %+v, want 2 scraped, 0 failed, 2 signals", result)
	}
	if profiles.marks[1] != domain.ScrapeScraped || profiles.marks[2] != domain.ScrapeScraped {
		t.Errorf("marks = %v, want both scraped", profiles.marks)
	}
	// Courtesy delay between items, not before the first.
	if *sleeps != 1 {
		t.Errorf("slept %d times, want 1", *sleeps)
	}

	for _, sig := range signals.created {
		if sig.ExpiresAt == nil {
			t.Error("scraped signal has no expiry window")
		}
	}
}

func TestRun_FetchFailureMarksAndContinues(t *testing.T) {
	profiles := &fakeProfileRepo{pending: []*domain.InferredSocialProfile{
		pendingProfile(1, "https://linkedin.com/in/broken"),
		pendingProfile(2, "https://linkedin.com/in/fine"),
	}}
	signals := &fakeSignalRepo{}
	fetcher := &fakeFetcher{content: map[string]string{
		"https://linkedin.com/in/fine": "content",
	}}
	analyzer := &fakeAnalyzer{response: `{"signals":[]}`}

	scraper, _ := testScraper(profiles, signals, fetcher, analyzer)

	result, err := scraper.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Failed != 1 || result.Scraped != 1 {
		t.Errorf("result = %+v, want 1 failed, 1 scraped", result)
	}
	if profiles.marks[1] != domain.ScrapeFailed {
		t.Errorf("broken profile marked %v, want failed", profiles.marks[1])
	}
	if profiles.marks[2] != domain.ScrapeScraped {
		t.Errorf("good profile marked %v, want scraped", profiles.marks[2])
	}
	if len(fetcher.fetched) != 2 {
		t.Errorf("fetched %d urls, want 2 (failure must not abort batch)", len(fetcher.fetched))
	}
}

func TestRun_SummarizerFailureStillCompletesScrape(t *testing.T) {
	profiles := &fakeProfileRepo{pending: []*domain.InferredSocialProfile{
		pendingProfile(1, "https://linkedin.com/in/one"),
	}}
	signals := &fakeSignalRepo{}
	fetcher := &fakeFetcher{content: map[string]string{
		"https://linkedin.com/in/one": "content",
	}}
	analyzer := &fakeAnalyzer{err: errors.New("model unavailable")}

	scraper, _ := testScraper(profiles, signals, fetcher, analyzer)

	result, err := scraper.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Scraped != 1 || result.Signals != 0 {
		t.Errorf("result = %+v, want scraped without signals", result)
	}
	if profiles.marks[1] != domain.ScrapeScraped {
		t.Errorf("profile marked %v, want scraped", profiles.marks[1])
	}
	if len(signals.created) != 0 {
		t.Errorf("stored %d signals, want 0", len(signals.created))
	}
}

func TestRun_BatchSizeBound(t *testing.T) {
	profiles := &fakeProfileRepo{}
	for i := int64(1); i <= 9; i++ {
		profiles.pending = append(profiles.pending, pendingProfile(i, "https://linkedin.com/in/p"))
	}
	fetcher := &fakeFetcher{content: map[string]string{"https://linkedin.com/in/p": "c"}}
	analyzer := &fakeAnalyzer{response: `{"signals":[]}`}

	scraper, _ := testScraper(profiles, &fakeSignalRepo{}, fetcher, analyzer)

	result, err := scraper.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := DefaultConfig().BatchSize; result.Scraped != want {
		t.Errorf("scraped %d, want batch size %d", result.Scraped, want)
	}
}

func TestSummarize_EvidenceTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	analyzer := &fakeAnalyzer{
		response: `{"signals":[{"type":"event","subtype":"event_general","confidence":"MEDIUM","evidence":"` + long + `"}]}`,
	}
	signals := &fakeSignalRepo{}
	profiles := &fakeProfileRepo{pending: []*domain.InferredSocialProfile{
		pendingProfile(1, "https://linkedin.com/in/one"),
	}}
	fetcher := &fakeFetcher{content: map[string]string{"https://linkedin.com/in/one": "content"}}

	scraper, _ := testScraper(profiles, signals, fetcher, analyzer)

	if _, err := scraper.Run(context.Background(), uuid.New()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(signals.created) != 1 {
		t.Fatalf("stored %d signals, want 1", len(signals.created))
	}
	if len(signals.created[0].Evidence) != 200 {
		t.Errorf("evidence length = %d, want truncated to 200", len(signals.created[0].Evidence))
	}
}
