package ai

import (
	"context"
	"fmt"
	"testing"
)

// fakeProvider returns a canned response or error.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

func validExtractionJSON() string {
	return `{
		"job_title": "Registered Nurse",
		"company": "St. Monica Hospital",
		"location": "Ikeja, Lagos",
		"job_type": "Full Time",
		"job_category": "Nurse",
		"salary": "NGN 250000 - 400000 per month",
		"experience": "2 years",
		"qualification": "RN",
		"requirements": ["Valid NMCN license"],
		"responsibilities": ["Bedside care"],
		"how_to_apply": ["Apply via the Apply Now button for full details.", "Click the Apply Now button for full details."],
		"date_posted": "2026-01-18",
		"deadline": "2026-02-18",
		"contact_email": "",
		"contact_phone": "",
		"apply_url": "https://example.org/jobs/rn"
	}`
}

func TestExtractFieldsParsesValidResponse(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: validExtractionJSON()})

	job, err := e.ExtractFields(context.Background(), "Title: Registered Nurse")
	if err != nil {
		t.Fatalf("ExtractFields: %v", err)
	}
	if job.JobTitle != "Registered Nurse" {
		t.Errorf("job_title = %q", job.JobTitle)
	}
	if job.JobCategory != "Nurse" {
		t.Errorf("job_category = %q", job.JobCategory)
	}
	if len(job.Requirements) != 1 || job.Requirements[0] != "Valid NMCN license" {
		t.Errorf("requirements = %v", job.Requirements)
	}
}

func TestExtractFieldsRejectsMissingRequiredField(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: `{"job_title": "Nurse"}`})

	if _, err := e.ExtractFields(context.Background(), "text"); err == nil {
		t.Fatal("expected schema violation error")
	}
}

func TestExtractFieldsRejectsNonJSON(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: "sorry, I cannot help with that"})

	if _, err := e.ExtractFields(context.Background(), "text"); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestExtractFieldsPropagatesProviderError(t *testing.T) {
	e := NewExtractor(&fakeProvider{err: fmt.Errorf("boom")})

	if _, err := e.ExtractFields(context.Background(), "text"); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
