package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jobbermed/medharvest/internal/cache"
	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/model"
)

// fakeExtractor returns a canonical record derived from the job title in the
// assembled text, and counts invocations.
type fakeExtractor struct {
	calls    int
	deadline string
	fail     bool
}

func (f *fakeExtractor) ExtractFields(_ context.Context, text string) (model.CanonicalJob, error) {
	f.calls++
	if f.fail {
		return model.CanonicalJob{}, fmt.Errorf("model refused")
	}
	title := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "Title: ") {
			title = strings.TrimPrefix(line, "Title: ")
			break
		}
	}
	return model.CanonicalJob{
		JobTitle:   title,
		Company:    "Test Clinic",
		Deadline:   f.deadline,
		HowToApply: []string{"Apply via the Apply Now button for full details."},
	}, nil
}

func testEngine(t *testing.T, extractor model.FieldExtractor, cfg config.ExtractionConfig) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	c := cache.Open(filepath.Join(dir, "extraction_cache.json"))
	e := NewEngine(extractor, c, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.sleep = func(time.Duration) {}
	return e, dir
}

func writeSnapshot(t *testing.T, dir string, jobs []model.RawJob) string {
	t.Helper()
	path := filepath.Join(dir, "raw_jobs.json")
	payload := map[string]any{"jobs": jobs}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readMaster(t *testing.T, path string) MasterFile {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading master file: %v", err)
	}
	var out MasterFile
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decoding master file: %v", err)
	}
	return out
}

func baseConfig() config.ExtractionConfig {
	return config.ExtractionConfig{Model: "gpt-4o-mini", MaxAgeDays: 61}
}

func today() time.Time {
	return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
}

func TestRunSkipsOldAndEmptyAndDedupes(t *testing.T) {
	ext := &fakeExtractor{}
	e, dir := testEngine(t, ext, baseConfig())

	input := writeSnapshot(t, dir, []model.RawJob{
		{Title: "Registered Nurse", PostedDate: "2026-01-20", Link: "https://a.example/1", Source: "medlocum"},
		{Title: "Registered Nurse", PostedDate: "2026-01-19", Link: "https://b.example/2", Source: "jobsinnigeria"},
		{Title: "Old Doctor", PostedDate: "2025-10-01", Link: "https://a.example/old"},
		{}, // no fields at all
	})
	out := filepath.Join(dir, "master_jobs.json")

	stats, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.SkippedOld != 1 {
		t.Errorf("SkippedOld = %d, want 1", stats.SkippedOld)
	}
	if stats.SkippedEmpty != 1 {
		t.Errorf("SkippedEmpty = %d, want 1", stats.SkippedEmpty)
	}
	if stats.Processed != 2 {
		t.Errorf("Processed = %d, want 2", stats.Processed)
	}
	if stats.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", stats.DuplicatesRemoved)
	}

	master := readMaster(t, out)
	if len(master.Jobs) != 1 {
		t.Fatalf("master has %d jobs, want 1 after dedup", len(master.Jobs))
	}
	// First occurrence wins: the newer medlocum posting was processed first.
	if master.Jobs[0].Source != "medlocum" {
		t.Errorf("surviving source = %q, want medlocum", master.Jobs[0].Source)
	}
	if master.Metadata.Model != "gpt-4o-mini" {
		t.Errorf("metadata model = %q", master.Metadata.Model)
	}
	if master.Metadata.DuplicatesRemoved != 1 {
		t.Errorf("metadata duplicates_removed = %d", master.Metadata.DuplicatesRemoved)
	}
}

func TestRunCacheHitSkipsLLM(t *testing.T) {
	ext := &fakeExtractor{}
	e, dir := testEngine(t, ext, baseConfig())

	jobs := []model.RawJob{
		{Title: "Pharmacist", PostedDate: "2026-01-25", Link: "https://a.example/ph", Source: "medlocum"},
	}
	input := writeSnapshot(t, dir, jobs)
	out := filepath.Join(dir, "master_jobs.json")

	if _, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if ext.calls != 1 {
		t.Fatalf("first run made %d LLM calls, want 1", ext.calls)
	}

	// Same URL, different source tag on the raw job.
	jobs[0].Source = "jobsinnigeria"
	input = writeSnapshot(t, dir, jobs)

	stats, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if ext.calls != 1 {
		t.Errorf("cache hit still called the LLM (%d calls)", ext.calls)
	}
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}

	master := readMaster(t, out)
	if master.Jobs[0].Source != "jobsinnigeria" {
		t.Errorf("cached record should take the new source tag, got %q", master.Jobs[0].Source)
	}
	if master.Jobs[0].JobTitle != "Pharmacist" {
		t.Errorf("cached fields should be reused, got %+v", master.Jobs[0])
	}
}

func TestRunRelativeDeadlineResolution(t *testing.T) {
	ext := &fakeExtractor{deadline: "6 weeks from posting"}
	e, dir := testEngine(t, ext, baseConfig())

	input := writeSnapshot(t, dir, []model.RawJob{
		{Title: "Nurse", PostedDate: "2026-01-20", Link: "https://a.example/n"},
	})
	out := filepath.Join(dir, "master_jobs.json")

	if _, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	master := readMaster(t, out)
	if got := master.Jobs[0].Deadline; got != "2026-03-03" {
		t.Errorf("deadline = %q, want 2026-03-03 (42 days after posting)", got)
	}
	if got := master.Jobs[0].DatePosted; got != "2026-01-20" {
		t.Errorf("date_posted = %q, want re-asserted posting date", got)
	}
}

func TestRunProtectedEmailBlanked(t *testing.T) {
	ext := &fakeExtractor{}
	e, dir := testEngine(t, ext, baseConfig())

	input := writeSnapshot(t, dir, []model.RawJob{
		{
			Title:      "Nurse",
			PostedDate: "2026-01-25",
			Link:       "https://a.example/n",
			RawContent: `apply via <a href="/cdn-cgi/l/email-protection#xy">email</a>`,
		},
	})
	out := filepath.Join(dir, "master_jobs.json")

	if _, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	job := readMaster(t, out).Jobs[0]
	if job.ContactEmail != "" {
		t.Errorf("contact_email = %q, want empty for protected email", job.ContactEmail)
	}
	for _, b := range job.HowToApply {
		if strings.Contains(b, "@") {
			t.Errorf("fabricated email in how_to_apply: %q", b)
		}
	}
}

func TestRunTitleCategoryOverridesModel(t *testing.T) {
	ext := &fakeExtractor{}
	e, dir := testEngine(t, ext, baseConfig())

	input := writeSnapshot(t, dir, []model.RawJob{
		{Title: "Senior Medical Officer", PostedDate: "2026-01-25", Link: "https://a.example/smo"},
	})
	out := filepath.Join(dir, "master_jobs.json")

	if _, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := readMaster(t, out).Jobs[0].JobCategory; got != "Doctor" {
		t.Errorf("job_category = %q, want Doctor", got)
	}
}

func TestRunMaxJobsCapsProcessing(t *testing.T) {
	ext := &fakeExtractor{}
	cfg := baseConfig()
	cfg.MaxJobs = 1
	e, dir := testEngine(t, ext, cfg)

	input := writeSnapshot(t, dir, []model.RawJob{
		{Title: "Nurse", PostedDate: "2026-01-25", Link: "https://a.example/1"},
		{Title: "Doctor", PostedDate: "2026-01-24", Link: "https://a.example/2"},
	})
	out := filepath.Join(dir, "master_jobs.json")

	stats, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Processed != 1 || ext.calls != 1 {
		t.Errorf("Processed = %d, calls = %d, want 1 each", stats.Processed, ext.calls)
	}
	// Newer posting wins the cap.
	if got := readMaster(t, out).Jobs[0].JobTitle; got != "Nurse" {
		t.Errorf("capped run kept %q, want the newest job", got)
	}
}

func TestRunExtractionErrorCountedNotFatal(t *testing.T) {
	ext := &fakeExtractor{fail: true}
	e, dir := testEngine(t, ext, baseConfig())

	input := writeSnapshot(t, dir, []model.RawJob{
		{Title: "Nurse", PostedDate: "2026-01-25", Link: "https://a.example/1"},
	})
	out := filepath.Join(dir, "master_jobs.json")

	stats, err := e.Run(context.Background(), RunParams{InputPath: input, OutputPath: out, Today: today()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Errors != 1 || stats.Processed != 0 {
		t.Errorf("Errors = %d, Processed = %d", stats.Errors, stats.Processed)
	}
	if len(readMaster(t, out).Jobs) != 0 {
		t.Error("failed job must be excluded from output")
	}
}

func TestRunMissingInputYieldsEmptyOutput(t *testing.T) {
	ext := &fakeExtractor{}
	e, dir := testEngine(t, ext, baseConfig())
	out := filepath.Join(dir, "master_jobs.json")

	stats, err := e.Run(context.Background(), RunParams{
		InputPath:  filepath.Join(dir, "missing.json"),
		OutputPath: out,
		Today:      today(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.TotalJobs != 0 || ext.calls != 0 {
		t.Errorf("stats = %+v, calls = %d", stats, ext.calls)
	}
	if len(readMaster(t, out).Jobs) != 0 {
		t.Error("expected empty master file")
	}
}

func TestLoadRawJobsBareArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw_jobs.json")
	if err := os.WriteFile(path, []byte(`[{"title":"Nurse"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	jobs, err := loadRawJobs(path)
	if err != nil {
		t.Fatalf("loadRawJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Nurse" {
		t.Errorf("jobs = %+v", jobs)
	}
}
