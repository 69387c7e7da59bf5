package ai

import "context"

// LLMProvider sends a job's assembled text to an LLM and returns the raw
// JSON response. Used only by Extractor; not exported to the rest of the
// system.
type LLMProvider interface {
	Complete(ctx context.Context, jobText string) (string, error)
}
