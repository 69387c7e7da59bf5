package extract

import (
	"strings"
	"testing"

	"github.com/jobbermed/medharvest/internal/model"
)

func TestBuildTextLabelsAndOrder(t *testing.T) {
	job := model.RawJob{
		Title:       "Registered Nurse",
		Company:     "St. Monica Hospital",
		Location:    "Ikeja, Lagos",
		Salary:      "NGN 250000",
		Description: "Provide bedside care.",
		Link:        "https://example.org/jobs/rn",
	}
	text := BuildText(job)

	for _, want := range []string{
		"Title: Registered Nurse",
		"Company: St. Monica Hospital",
		"Location: Ikeja, Lagos",
		"Salary: NGN 250000",
		"Apply URL: https://example.org/jobs/rn",
		"Description: Provide bedside care.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Index(text, "Title:") > strings.Index(text, "Description:") {
		t.Error("short fields should precede long fields")
	}
}

func TestBuildTextSkipsEmptyAndNA(t *testing.T) {
	job := model.RawJob{Title: "Nurse", Salary: "N/A"}
	text := BuildText(job)

	if strings.Contains(text, "Salary") {
		t.Errorf("N/A salary should be skipped: %s", text)
	}
	if strings.Contains(text, "Company") {
		t.Errorf("empty company should be skipped: %s", text)
	}
}

func TestBuildTextEmptyJob(t *testing.T) {
	if text := BuildText(model.RawJob{}); strings.TrimSpace(text) != "" {
		t.Errorf("empty job should produce empty text, got %q", text)
	}
}

func TestBuildTextSanitizesRedactedMarkers(t *testing.T) {
	job := model.RawJob{
		Title:      "Nurse",
		HowToApply: "Send CV; email is redacted on this page",
		RawContent: "Contact via <email protected> link",
	}
	text := BuildText(job)

	if strings.Contains(strings.ToLower(text), "redacted") {
		t.Errorf("redacted marker leaked: %s", text)
	}
	if strings.Contains(text, "<email protected>") {
		t.Errorf("protected marker leaked: %s", text)
	}
	if !strings.Contains(text, "email to apply") {
		t.Errorf("expected neutral replacement: %s", text)
	}
}

func TestBuildTextTruncatesLongFields(t *testing.T) {
	job := model.RawJob{
		Title:      "Nurse",
		RawContent: strings.Repeat("x", 2*longFieldLimit),
	}
	text := BuildText(job)

	if len(text) > longFieldLimit+200 {
		t.Errorf("long field not truncated, text length %d", len(text))
	}
}

func TestBuildTextEmailProtectedFlag(t *testing.T) {
	text := BuildText(model.RawJob{Title: "Nurse", EmailProtected: true})
	if !strings.Contains(text, "Email Protected: true") {
		t.Errorf("missing protected flag: %s", text)
	}

	text = BuildText(model.RawJob{Title: "Nurse"})
	if strings.Contains(text, "Email Protected") {
		t.Errorf("flag should be absent when false: %s", text)
	}
}
