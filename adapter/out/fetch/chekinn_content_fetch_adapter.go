// Package fetch implements the content-fetch provider adapter.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chekinn_server/pkg/httputil"

	"github.com/sony/gobreaker"
)

// maxContentBytes bounds how much rendered content one fetch may return.
const maxContentBytes = 512 * 1024

// ContentFetchAdapter implements out.ContentFetcher against an HTTP
// render-to-markdown service. Calls go through a circuit breaker so a
// degraded provider fails fast instead of stalling every scrape batch.
type ContentFetchAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewContentFetchAdapter creates a new ContentFetchAdapter.
func NewContentFetchAdapter(baseURL, apiKey string) *ContentFetchAdapter {
	cbSettings := gobreaker.Settings{
		Name:        "content-fetch",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &ContentFetchAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httputil.NewClient(nil),
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// Fetch returns the rendered text content of the target URL. Any failure,
// including an open breaker, surfaces as a per-item error for the caller to
// mark failed.
func (a *ContentFetchAdapter) Fetch(ctx context.Context, target string) (string, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		return a.doFetch(ctx, target)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (a *ContentFetchAdapter) doFetch(ctx context.Context, target string) (string, error) {
	endpoint := fmt.Sprintf("%s?url=%s", a.baseURL, url.QueryEscape(target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return "", fmt.Errorf("read fetch response: %w", err)
	}
	return string(body), nil
}
