// Package out defines outbound ports implemented by adapters.
package out

import "context"

// TextAnalyzer is the text-analysis provider boundary: given a prompt, return
// free text or a structured JSON object. Implementations are black boxes;
// callers must tolerate malformed output by falling back to empty defaults.
type TextAnalyzer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// AnalyzeJSON asks the provider for a JSON object and unmarshals it into
	// out. Returns an error when the provider output is not parseable JSON.
	AnalyzeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}
