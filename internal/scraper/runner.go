package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jobbermed/medharvest/internal/model"
)

// SourceResult records one scraper's outcome for the snapshot metadata.
type SourceResult struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Snapshot is the combined raw-jobs file the extraction stage consumes.
type Snapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Jobs     []model.RawJob   `json:"jobs"`
}

type SnapshotMetadata struct {
	ScrapedAt string                  `json:"scraped_at"`
	Sources   map[string]SourceResult `json:"sources"`
	TotalJobs int                     `json:"total_jobs"`
}

// Runner executes scrapers sequentially and writes the combined snapshot:
// a timestamped file for history plus raw_jobs.json for the extraction
// stage. One scraper failing does not stop the others.
type Runner struct {
	scrapers []model.Scraper
	jsonDir  string
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner creates a runner over the given scrapers in order.
func NewRunner(scrapers []model.Scraper, jsonDir string, logger *slog.Logger) *Runner {
	return &Runner{
		scrapers: scrapers,
		jsonDir:  jsonDir,
		logger:   logger,
		now:      time.Now,
	}
}

// Run scrapes every source, writes the snapshot files, and returns the
// per-source results. The error is non-nil only for snapshot write failures
// or context cancellation; scraper failures are reported in the results.
func (r *Runner) Run(ctx context.Context) (map[string]SourceResult, error) {
	results := make(map[string]SourceResult, len(r.scrapers))
	var all []model.RawJob

	for _, s := range r.scrapers {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		r.logger.Info("running scraper", "scraper", s.Name())

		jobs, err := s.Scrape(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			r.logger.Error("scraper failed", "scraper", s.Name(), "error", err)
			results[s.Name()] = SourceResult{Status: "error", Error: err.Error()}
			continue
		}
		results[s.Name()] = SourceResult{Status: "success", Count: len(jobs)}
		all = append(all, jobs...)
	}

	r.logFieldCompletion(all)

	if err := r.writeSnapshot(all, results); err != nil {
		return results, err
	}
	r.logger.Info("scraping complete", "total_jobs", len(all), "sources", len(results))
	return results, nil
}

// Failed reports whether any source ended in error.
func Failed(results map[string]SourceResult) bool {
	for _, res := range results {
		if res.Status == "error" {
			return true
		}
	}
	return false
}

func (r *Runner) writeSnapshot(jobs []model.RawJob, results map[string]SourceResult) error {
	if err := os.MkdirAll(r.jsonDir, 0o755); err != nil {
		return fmt.Errorf("create json dir: %w", err)
	}

	now := r.now()
	snapshot := Snapshot{
		Metadata: SnapshotMetadata{
			ScrapedAt: now.Format(time.RFC3339),
			Sources:   results,
			TotalJobs: len(jobs),
		},
		Jobs: jobs,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	stamped := filepath.Join(r.jsonDir, fmt.Sprintf("all_raw_jobs_%s.json", now.Format("20060102_150405")))
	latest := filepath.Join(r.jsonDir, "raw_jobs.json")
	for _, path := range []string{stamped, latest} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot %s: %w", path, err)
		}
	}
	r.logger.Info("snapshot written", "path", stamped, "jobs", len(jobs))
	return nil
}

// logFieldCompletion reports how often the fields that matter downstream
// were actually populated, a quick signal that a site changed its markup.
func (r *Runner) logFieldCompletion(jobs []model.RawJob) {
	if len(jobs) == 0 {
		return
	}
	counts := map[string]int{}
	for _, j := range jobs {
		fields := map[string]string{
			"title":       j.Title,
			"company":     j.Company,
			"location":    j.Location,
			"salary":      j.Salary,
			"posted_date": j.PostedDate,
			"deadline":    j.Deadline,
			"description": j.Description,
			"email":       j.Email,
		}
		for name, value := range fields {
			if value != "" {
				counts[name]++
			}
		}
	}
	for _, name := range []string{"title", "company", "location", "salary", "posted_date", "deadline", "description", "email"} {
		pct := 100 * counts[name] / len(jobs)
		r.logger.Info("field completion", "field", name, "percent", pct)
	}
}
