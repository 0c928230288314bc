package out

import "context"

// ContentFetcher is the content-fetch provider boundary: given a URL, return
// rendered markdown/text. Failures are per-item and non-fatal to a batch.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
