package ai

import _ "embed"

// jobExtractionPrompt is the system instruction for the extraction call:
// field rules, category heuristics, and how-to-apply formatting rules.
//
//go:embed prompts/job_extraction.md
var jobExtractionPrompt string
