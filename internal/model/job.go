package model

import (
	"context"
	"strings"
	"time"
)

// RawJob is the source-specific record a scraper produces before normalization.
// Every scraper maps its own payload shape into this one struct; fields a
// source cannot provide stay empty. JSON tags match the raw_jobs.json feed.
type RawJob struct {
	Title            string `json:"title"`
	Company          string `json:"company"`
	Location         string `json:"location"`
	State            string `json:"state,omitempty"`
	Country          string `json:"country,omitempty"`
	JobType          string `json:"job_type"`
	Salary           string `json:"salary"`
	PostedDate       string `json:"posted_date"`
	Deadline         string `json:"deadline"`
	Description      string `json:"description"`
	Requirements     string `json:"requirements"`
	Responsibilities string `json:"responsibilities"`
	HowToApply       string `json:"how_to_apply"`
	Experience       string `json:"experience"`
	Qualification    string `json:"qualification"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Website          string `json:"website,omitempty"`
	ContactInfo      string `json:"contact_info,omitempty"`
	Profession       string `json:"profession,omitempty"`
	EmailProtected   bool   `json:"email_protected,omitempty"`
	RawContent       string `json:"raw_content"`
	Link             string `json:"link"`
	Source           string `json:"_source"`
	ScrapedAt        string `json:"_scraped_at"`
}

// ApplyURL returns the best available application link for cache/dedup keying.
func (j RawJob) ApplyURL() string {
	return strings.TrimSpace(j.Link)
}

// CanonicalJob is the fixed-schema record produced by the extraction engine
// and consumed by the newsletter and the JSON feed.
type CanonicalJob struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	JobType          string   `json:"job_type"`
	JobCategory      string   `json:"job_category"`
	Salary           string   `json:"salary"`
	Experience       string   `json:"experience"`
	Qualification    string   `json:"qualification"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	HowToApply       []string `json:"how_to_apply"`
	DatePosted       string   `json:"date_posted"`
	Deadline         string   `json:"deadline"`
	ContactEmail     string   `json:"contact_email"`
	ContactPhone     string   `json:"contact_phone"`
	ApplyURL         string   `json:"apply_url"`
	Source           string   `json:"_source"`
}

// DedupeKey is the (title, company) identity used to collapse duplicates.
// Location is deliberately excluded: branch postings collapse to one record.
func (j CanonicalJob) DedupeKey() string {
	title := strings.ToLower(strings.TrimSpace(j.JobTitle))
	company := strings.ToLower(strings.TrimSpace(j.Company))
	return title + "|" + company
}

// Scraper harvests raw job records from one site.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]RawJob, error)
}

// FieldExtractor turns one job's assembled free text into a canonical record.
// Implementations must return an error on missing or schema-violating output;
// the engine counts the job as failed and moves on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (CanonicalJob, error)
}

// SeenStore tracks listing URLs whose detail pages have already been fetched,
// so repeat runs can skip them.
type SeenStore interface {
	HasSeen(url string) (bool, error)
	MarkSeen(url string) error
	Cleanup(olderThan time.Duration) error
}

// ExtractionCache maps apply URLs to previously computed canonical records.
// A URL present in the cache is never re-sent to the LLM.
type ExtractionCache interface {
	Get(applyURL string) (CanonicalJob, bool)
	Put(applyURL string, job CanonicalJob) error
	Len() int
}
