package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jobbermed/medharvest/internal/model"
)

// Extractor implements model.FieldExtractor on top of an LLMProvider. The
// response is validated against the extraction schema before it is trusted;
// any violation is an error for that job only.
type Extractor struct {
	provider LLMProvider
}

// NewExtractor creates an extractor backed by the given provider.
func NewExtractor(provider LLMProvider) *Extractor {
	return &Extractor{provider: provider}
}

// ExtractFields sends one job's assembled text to the LLM and parses the
// schema-conforming response into a canonical record.
func (e *Extractor) ExtractFields(ctx context.Context, text string) (model.CanonicalJob, error) {
	raw, err := e.provider.Complete(ctx, text)
	if err != nil {
		return model.CanonicalJob{}, fmt.Errorf("llm complete: %w", err)
	}

	if err := validateResponse([]byte(raw)); err != nil {
		return model.CanonicalJob{}, err
	}

	var job model.CanonicalJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return model.CanonicalJob{}, fmt.Errorf("unmarshal canonical job: %w", err)
	}
	return job, nil
}
