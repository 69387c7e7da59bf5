package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/dates"
	"github.com/jobbermed/medharvest/internal/htmltext"
	"github.com/jobbermed/medharvest/internal/model"
)

// Stats summarizes one extraction run.
type Stats struct {
	TotalJobs         int
	Processed         int
	CacheHits         int
	SkippedOld        int
	SkippedEmpty      int
	Errors            int
	DuplicatesRemoved int
}

// Metadata is written alongside the canonical jobs in master_jobs.json.
type Metadata struct {
	ExtractedAt       string `json:"extracted_at"`
	Model             string `json:"model"`
	TotalProcessed    int    `json:"total_processed"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
	SkippedOld        int    `json:"skipped_old"`
	SkippedEmpty      int    `json:"skipped_empty"`
	Errors            int    `json:"errors"`
}

// MasterFile is the shape of master_jobs.json.
type MasterFile struct {
	Metadata Metadata             `json:"metadata"`
	Jobs     []model.CanonicalJob `json:"jobs"`
}

// RunParams are the per-invocation knobs of an extraction run.
type RunParams struct {
	InputPath  string    // raw jobs snapshot
	OutputPath string    // master jobs output
	Today      time.Time // zero value means time.Now
}

// Engine turns raw jobs into canonical records: age filter, cache lookup,
// LLM extraction, post-processing overlay, dedup, master file write.
// Everything runs sequentially; a failed job is counted and skipped, never
// fatal for the batch.
type Engine struct {
	extractor model.FieldExtractor
	cache     model.ExtractionCache
	cfg       config.ExtractionConfig
	logger    *slog.Logger
	now       func() time.Time
	sleep     func(time.Duration)
}

// NewEngine creates an extraction engine.
func NewEngine(extractor model.FieldExtractor, cache model.ExtractionCache, cfg config.ExtractionConfig, logger *slog.Logger) *Engine {
	return &Engine{
		extractor: extractor,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Run executes one extraction pass and writes the master file. The returned
// error covers I/O and cancellation only; per-job failures land in
// Stats.Errors.
func (e *Engine) Run(ctx context.Context, params RunParams) (Stats, error) {
	var stats Stats

	today := params.Today
	if today.IsZero() {
		today = e.now()
	}
	cutoff := today.AddDate(0, 0, -e.cfg.MaxAgeDays)

	jobs, err := loadRawJobs(params.InputPath)
	if err != nil {
		// A missing snapshot yields an empty run rather than a crash.
		e.logger.Warn("raw jobs snapshot unavailable", "path", params.InputPath, "error", err)
		jobs = nil
	}
	stats.TotalJobs = len(jobs)

	// Newest first, so the job cap favors recent postings.
	sort.SliceStable(jobs, func(i, j int) bool {
		di, _ := pickDate(jobs[i])
		dj, _ := pickDate(jobs[j])
		return dj.Before(di)
	})
	e.logger.Info("extraction starting",
		"jobs", len(jobs), "model", e.cfg.Model, "cutoff", dates.ISO(cutoff))

	var extracted []model.CanonicalJob
	for _, job := range jobs {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		d, hasDate := pickDate(job)
		if hasDate && d.Before(cutoff) {
			stats.SkippedOld++
			continue
		}

		applyURL := job.ApplyURL()
		if applyURL != "" {
			if cached, ok := e.cache.Get(applyURL); ok {
				cached.Source = job.Source
				extracted = append(extracted, cached)
				stats.Processed++
				stats.CacheHits++
				if e.maxReached(stats.Processed) {
					break
				}
				e.sleep(e.cfg.Sleep)
				continue
			}
		}

		text := BuildText(job)
		if strings.TrimSpace(text) == "" {
			stats.SkippedEmpty++
			continue
		}

		data, err := e.extractor.ExtractFields(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			e.logger.Warn("extraction failed", "title", job.Title, "link", job.Link, "error", err)
			stats.Errors++
		} else {
			data = e.overlay(data, job, d, hasDate, applyURL)
			extracted = append(extracted, data)
			stats.Processed++
			if data.ApplyURL != "" {
				if err := e.cache.Put(data.ApplyURL, data); err != nil {
					e.logger.Warn("cache write failed", "apply_url", data.ApplyURL, "error", err)
				}
			}
			if stats.Processed%10 == 0 {
				e.logger.Info("extraction progress", "processed", stats.Processed)
			}
		}

		if e.maxReached(stats.Processed) {
			e.logger.Info("reached job cap", "max", e.cfg.MaxJobs)
			break
		}
		e.sleep(e.cfg.Sleep)
	}

	before := len(extracted)
	extracted = Dedupe(extracted)
	stats.DuplicatesRemoved = before - len(extracted)

	if err := e.writeMaster(params.OutputPath, extracted, stats); err != nil {
		return stats, err
	}

	e.logger.Info("extraction complete",
		"processed", stats.Processed,
		"cache_hits", stats.CacheHits,
		"skipped_old", stats.SkippedOld,
		"skipped_empty", stats.SkippedEmpty,
		"duplicates_removed", stats.DuplicatesRemoved,
		"errors", stats.Errors,
		"output", params.OutputPath)
	return stats, nil
}

// overlay applies the post-LLM fixups that take precedence over model
// output: detected dates, title-based category, raw-record backfills,
// protected-email blanking, and how-to-apply normalization.
func (e *Engine) overlay(data model.CanonicalJob, job model.RawJob, d time.Time, hasDate bool, applyURL string) model.CanonicalJob {
	if hasDate {
		data.DatePosted = dates.ISO(d)
	}
	if deadline, ok := dates.Parse(data.Deadline); ok {
		data.Deadline = dates.ISO(deadline)
	} else {
		anchor := d
		if !hasDate {
			anchor, _ = dates.Parse(job.ScrapedAt)
		}
		if !anchor.IsZero() {
			if relative, ok := dates.ParseRelative(data.Deadline, anchor); ok {
				data.Deadline = dates.ISO(relative)
			}
		}
	}

	if category := ClassifyCategory(data.JobTitle); category != "" {
		data.JobCategory = category
	}
	if data.Salary == "" && job.Salary != "" {
		data.Salary = job.Salary
	}
	if data.ApplyURL == "" {
		data.ApplyURL = applyURL
	}
	if job.EmailProtected || htmltext.HasProtectedEmail(job.RawContent) {
		data.ContactEmail = ""
	}
	data.HowToApply = NormalizeHowToApply(data.HowToApply, job, data.ApplyURL)
	data.Source = job.Source
	return data
}

func (e *Engine) maxReached(processed int) bool {
	return e.cfg.MaxJobs > 0 && processed >= e.cfg.MaxJobs
}

func (e *Engine) writeMaster(path string, jobs []model.CanonicalJob, stats Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out := MasterFile{
		Metadata: Metadata{
			ExtractedAt:       e.now().Format(time.RFC3339),
			Model:             e.cfg.Model,
			TotalProcessed:    stats.Processed,
			DuplicatesRemoved: stats.DuplicatesRemoved,
			SkippedOld:        stats.SkippedOld,
			SkippedEmpty:      stats.SkippedEmpty,
			Errors:            stats.Errors,
		},
		Jobs: jobs,
	}
	if out.Jobs == nil {
		out.Jobs = []model.CanonicalJob{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode master file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write master file: %w", err)
	}
	return nil
}

// pickDate finds the best available date for a raw job: posting date first,
// scrape time as a fallback.
func pickDate(job model.RawJob) (time.Time, bool) {
	if d, ok := dates.Parse(job.PostedDate); ok {
		return d, true
	}
	if d, ok := dates.Parse(job.ScrapedAt); ok {
		return d, true
	}
	return time.Time{}, false
}

// loadRawJobs accepts either the runner's snapshot object or a bare array
// of raw jobs.
func loadRawJobs(path string) ([]model.RawJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Jobs []model.RawJob `json:"jobs"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Jobs != nil {
		return wrapped.Jobs, nil
	}

	var bare []model.RawJob
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return bare, nil
}
