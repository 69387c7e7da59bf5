// Package newsletter renders the weekly digest email and dispatches it as a
// Brevo campaign.
package newsletter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/jobbermed/medharvest/internal/dates"
	"github.com/jobbermed/medharvest/internal/model"
)

// unsubscribePlaceholder is Brevo's merge tag; it must reach the API
// verbatim, which is why the digest is rendered with text/template and all
// job fields are HTML-escaped by hand.
const unsubscribePlaceholder = "{{unsubscribe}}"

//go:embed templates/digest.html.tmpl
var digestTemplateRaw string

var digestTemplate = template.Must(template.New("digest").Parse(digestTemplateRaw))

// invalidSalaryValues are junk strings some listings carry instead of a real
// figure; the salary line is dropped for these.
var invalidSalaryValues = map[string]bool{
	"":     true,
	"n":    true,
	"n,":   true,
	"na":   true,
	"n/a":  true,
	"none": true,
	"null": true,
	"-":    true,
	"--":   true,
	"nil":  true,
}

type digestData struct {
	JobCount       int
	Jobs           []cardData
	SiteURL        string
	UnsubscribeURL string
}

// cardData is one pre-escaped job card.
type cardData struct {
	Title    string
	Meta     string
	ApplyURL string
	Salary   string
	Tags     []string
}

// LoadJobs reads the master jobs file and returns the newest limit jobs by
// posting date.
func LoadJobs(path string, limit int) ([]model.CanonicalJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master jobs: %w", err)
	}

	var wrapped struct {
		Jobs []model.CanonicalJob `json:"jobs"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Jobs != nil {
		return topByDate(wrapped.Jobs, limit), nil
	}

	var bare []model.CanonicalJob
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse master jobs %s: %w", path, err)
	}
	return topByDate(bare, limit), nil
}

func topByDate(jobs []model.CanonicalJob, limit int) []model.CanonicalJob {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].DatePosted > jobs[j].DatePosted
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}

// BuildHTML renders the digest for the given jobs. The result still carries
// the Brevo unsubscribe merge tag; use PreviewHTML for a browsable copy.
func BuildHTML(jobs []model.CanonicalJob, siteURL string) (string, error) {
	data := digestData{
		JobCount:       len(jobs),
		SiteURL:        siteURL,
		UnsubscribeURL: unsubscribePlaceholder,
	}
	for _, job := range jobs {
		data.Jobs = append(data.Jobs, buildCard(job, siteURL))
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}

// PreviewHTML swaps the Brevo merge tag for a dead link so the rendered file
// can be opened in a browser.
func PreviewHTML(htmlContent string) string {
	return strings.ReplaceAll(htmlContent, unsubscribePlaceholder, "#")
}

// WritePreview saves a browsable copy of the digest next to the feed.
func WritePreview(path, htmlContent string) error {
	if err := os.WriteFile(path, []byte(PreviewHTML(htmlContent)), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}

func buildCard(job model.CanonicalJob, siteURL string) cardData {
	title := job.JobTitle
	if title == "" {
		title = "Untitled Role"
	}
	company := job.Company
	if company == "" {
		company = "Company not listed"
	}

	meta := company
	if loc := strings.TrimSpace(job.Location); loc != "" {
		meta += " • " + loc
	}

	applyURL := strings.TrimSpace(job.ApplyURL)
	if applyURL == "" {
		applyURL = siteURL
	}

	var tags []string
	if posted := strings.TrimSpace(job.DatePosted); posted != "" {
		tags = append(tags, "Posted "+formatDate(posted))
	}
	if deadline := strings.TrimSpace(job.Deadline); deadline != "" {
		tags = append(tags, "Closes "+formatDate(deadline))
	}
	if jobType := strings.TrimSpace(job.JobType); jobType != "" {
		tags = append(tags, jobType)
	}
	for i, tag := range tags {
		tags[i] = html.EscapeString(tag)
	}

	salary := strings.TrimSpace(job.Salary)
	if invalidSalaryValues[strings.ToLower(salary)] {
		salary = ""
	}

	return cardData{
		Title:    html.EscapeString(title),
		Meta:     html.EscapeString(meta),
		ApplyURL: html.EscapeString(applyURL),
		Salary:   html.EscapeString(salary),
		Tags:     tags,
	}
}

// formatDate renders an ISO date as "18 Jan 2026"; unparseable strings pass
// through untouched.
func formatDate(s string) string {
	d, ok := dates.Parse(s)
	if !ok {
		return s
	}
	return d.Format("02 Jan 2006")
}
