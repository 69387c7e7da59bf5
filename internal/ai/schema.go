package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// jobExtractionSchema is the JSON Schema enforced server-side via OpenAI
// structured outputs and re-checked locally before the response is trusted.
var jobExtractionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"job_title":     map[string]any{"type": "string"},
		"company":       map[string]any{"type": "string"},
		"location":      map[string]any{"type": "string"},
		"job_type":      map[string]any{"type": "string"},
		"job_category":  map[string]any{"type": "string"},
		"salary":        map[string]any{"type": "string"},
		"experience":    map[string]any{"type": "string"},
		"qualification": map[string]any{"type": "string"},
		"requirements": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"responsibilities": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"how_to_apply": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"date_posted":   map[string]any{"type": "string"},
		"deadline":      map[string]any{"type": "string"},
		"contact_email": map[string]any{"type": "string"},
		"contact_phone": map[string]any{"type": "string"},
		"apply_url":     map[string]any{"type": "string"},
	},
	"required": []string{
		"job_title", "company", "location", "job_type", "job_category", "salary",
		"experience", "qualification", "requirements", "responsibilities",
		"how_to_apply", "date_posted", "deadline", "contact_email",
		"contact_phone", "apply_url",
	},
	"additionalProperties": false,
}

// compiledSchema is built once at init; compiling the fixed schema cannot
// fail at runtime.
var compiledSchema = mustCompile(jobExtractionSchema)

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal job extraction schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("job_extraction.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add job extraction schema: %v", err))
	}
	schema, err := compiler.Compile("job_extraction.json")
	if err != nil {
		panic(fmt.Sprintf("compile job extraction schema: %v", err))
	}
	return schema
}

// validateResponse checks the LLM's raw JSON against the extraction schema.
func validateResponse(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal llm output: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("llm output does not match schema: %w", err)
	}
	return nil
}
