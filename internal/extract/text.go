package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jobbermed/medharvest/internal/htmltext"
	"github.com/jobbermed/medharvest/internal/model"
)

// longFieldLimit bounds each free-text field in the assembled prompt so one
// verbose page cannot blow up token usage.
const longFieldLimit = 3000

var (
	redactedEmailRegex  = regexp.MustCompile(`(?i)\bemail\s*(?:is\s*)?redacted\b`)
	protectedEmailRegex = regexp.MustCompile(`(?i)<email.*?protected>`)
)

// sanitizeFieldText replaces redacted-email markers with a neutral
// instruction so the model never echoes placeholder text.
func sanitizeFieldText(s string) string {
	s = redactedEmailRegex.ReplaceAllString(s, "email to apply")
	return protectedEmailRegex.ReplaceAllString(s, "email to apply")
}

// BuildText assembles one raw job into the labeled free text sent to the
// LLM. Empty and "N/A" values are skipped; long fields are sanitized and
// truncated.
func BuildText(job model.RawJob) string {
	var parts []string
	add := func(label, value string) {
		v := strings.TrimSpace(value)
		if v == "" || strings.EqualFold(v, "n/a") {
			return
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, v))
	}

	add("Title", job.Title)
	add("Company", job.Company)
	add("Location", job.Location)
	add("State", job.State)
	add("Country", job.Country)
	add("Date Posted", job.PostedDate)
	add("Deadline", job.Deadline)
	add("Salary", job.Salary)
	add("Job Type", job.JobType)
	add("Experience", job.Experience)
	add("Qualification", job.Qualification)
	add("Apply URL", job.Link)
	if job.EmailProtected {
		add("Email Protected", "true")
	}

	long := []struct {
		label string
		value string
	}{
		{"Description", job.Description},
		{"Requirements", job.Requirements},
		{"Responsibilities", job.Responsibilities},
		{"How To Apply", job.HowToApply},
		{"Raw Content", job.RawContent},
	}
	for _, f := range long {
		if f.value == "" {
			continue
		}
		add(f.label, htmltext.Truncate(sanitizeFieldText(f.value), longFieldLimit))
	}

	return strings.Join(parts, "\n\n")
}
