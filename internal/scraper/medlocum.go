package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/dates"
	"github.com/jobbermed/medharvest/internal/htmltext"
	"github.com/jobbermed/medharvest/internal/model"
)

const medlocumBaseURL = "https://medlocumjobs.com/jobs"

// medlocumPage is the Inertia payload embedded in the listing page's
// #app[data-page] attribute.
type medlocumPage struct {
	Props struct {
		Jobs struct {
			Data        []medlocumJob `json:"data"`
			CurrentPage int           `json:"current_page"`
			LastPage    int           `json:"last_page"`
		} `json:"jobs"`
	} `json:"props"`
}

type medlocumRegion struct {
	Name string `json:"name"`
}

type medlocumJob struct {
	Title               string          `json:"title"`
	Slug                string          `json:"slug"`
	CompanyName         string          `json:"company_name"`
	Location            string          `json:"location"`
	State               *medlocumRegion `json:"state"`
	Country             *medlocumRegion `json:"country"`
	JobType             string          `json:"job_type"`
	FormattedJobType    string          `json:"formatted_job_type"`
	FormattedSalary     string          `json:"formatted_salary"`
	SalaryMin           json.Number     `json:"salary_min"`
	SalaryMax           json.Number     `json:"salary_max"`
	SalaryCurrency      string          `json:"salary_currency"`
	SalaryPeriod        string          `json:"salary_period"`
	Description         string          `json:"description"`
	Requirements        string          `json:"requirements"`
	Responsibilities    string          `json:"responsibilities"`
	ContactEmail        string          `json:"contact_email"`
	ContactPhone        string          `json:"contact_phone"`
	ContactWebsite      string          `json:"contact_website"`
	ApplicationDeadline string          `json:"application_deadline"`
	CreatedAt           string          `json:"created_at"`
}

// MedlocumScraper reads the MedLocum job board, which ships its listings as
// a JSON payload inside the page instead of crawlable HTML.
type MedlocumScraper struct {
	cfg     config.ScraperConfig
	client  *Client
	logger  *slog.Logger
	baseURL string
	now     func() time.Time
}

// NewMedlocumScraper creates the MedLocum adapter.
func NewMedlocumScraper(cfg config.ScraperConfig, client *Client, logger *slog.Logger) *MedlocumScraper {
	return &MedlocumScraper{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		baseURL: medlocumBaseURL,
		now:     time.Now,
	}
}

func (s *MedlocumScraper) Name() string { return "medlocum" }

// Scrape pages through the board until the payload reports the last page or
// the configured page cap is hit.
func (s *MedlocumScraper) Scrape(ctx context.Context) ([]model.RawJob, error) {
	var raw []medlocumJob
	for page := 1; ; page++ {
		if s.cfg.MaxPages > 0 && page > s.cfg.MaxPages {
			break
		}

		pageURL := fmt.Sprintf("%s?page=%d", s.baseURL, page)
		s.logger.Debug("fetching listing page", "scraper", s.Name(), "page", page)

		body, err := s.client.GetPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("listing page fetch failed", "scraper", s.Name(), "page", page, "error", err)
			break
		}

		payload, err := parseMedlocumPayload(body)
		if err != nil {
			s.logger.Warn("listing payload parse failed", "scraper", s.Name(), "page", page, "error", err)
			break
		}

		jobs := payload.Props.Jobs
		if len(jobs.Data) == 0 {
			s.logger.Debug("no jobs on page", "scraper", s.Name(), "page", page)
			break
		}
		raw = append(raw, jobs.Data...)

		if jobs.CurrentPage >= jobs.LastPage {
			break
		}
	}

	scrapedAt := s.now().Format(time.RFC3339)
	out := make([]model.RawJob, 0, len(raw))
	for _, job := range raw {
		out = append(out, s.mapJob(job, scrapedAt))
	}
	s.logger.Info("scrape complete", "scraper", s.Name(), "jobs", len(out))
	return out, nil
}

// mapJob flattens one MedLocum payload record into the common raw shape.
func (s *MedlocumScraper) mapJob(job medlocumJob, scrapedAt string) model.RawJob {
	var locationParts []string
	if job.Location != "" {
		locationParts = append(locationParts, job.Location)
	}
	state := ""
	if job.State != nil {
		state = job.State.Name
		if state != "" && !strings.Contains(job.Location, state) {
			locationParts = append(locationParts, state)
		}
	}
	country := ""
	if job.Country != nil {
		country = job.Country.Name
		if country != "" {
			locationParts = append(locationParts, country)
		}
	}

	salary := job.FormattedSalary
	if salary == "" {
		var salaryParts []string
		if job.SalaryMin != "" {
			salaryParts = append(salaryParts, strings.TrimSpace(job.SalaryCurrency+" "+job.SalaryMin.String()))
		}
		if job.SalaryMax != "" {
			salaryParts = append(salaryParts, strings.TrimSpace(job.SalaryCurrency+" "+job.SalaryMax.String()))
		}
		salary = strings.Join(salaryParts, " - ")
		if salary != "" && job.SalaryPeriod != "" {
			salary += " / " + job.SalaryPeriod
		}
	}

	var contactParts []string
	if job.ContactEmail != "" {
		contactParts = append(contactParts, "Email: "+job.ContactEmail)
	}
	if job.ContactPhone != "" {
		contactParts = append(contactParts, "Phone: "+job.ContactPhone)
	}

	deadline := job.ApplicationDeadline
	if d, ok := dates.Parse(deadline); ok {
		deadline = dates.ISO(d)
	}
	posted := job.CreatedAt
	if d, ok := dates.Parse(posted); ok {
		posted = dates.ISO(d)
	}

	description := htmltext.Flatten(job.Description)
	requirements := htmltext.Flatten(job.Requirements)
	responsibilities := htmltext.Flatten(job.Responsibilities)

	var rawParts []string
	if description != "" {
		rawParts = append(rawParts, "DESCRIPTION:\n"+description)
	}
	if responsibilities != "" {
		rawParts = append(rawParts, "RESPONSIBILITIES:\n"+responsibilities)
	}
	if requirements != "" {
		rawParts = append(rawParts, "REQUIREMENTS:\n"+requirements)
	}

	jobType := job.FormattedJobType
	if jobType == "" {
		jobType = job.JobType
	}

	return model.RawJob{
		Title:            job.Title,
		Company:          job.CompanyName,
		Location:         strings.Join(locationParts, ", "),
		State:            state,
		Country:          country,
		JobType:          jobType,
		Salary:           salary,
		PostedDate:       posted,
		Deadline:         deadline,
		Description:      description,
		Requirements:     requirements,
		Responsibilities: responsibilities,
		Email:            job.ContactEmail,
		Phone:            job.ContactPhone,
		Website:          job.ContactWebsite,
		ContactInfo:      strings.Join(contactParts, " | "),
		RawContent:       strings.Join(rawParts, "\n\n"),
		Link:             "https://medlocumjobs.com/jobs/" + job.Slug,
		Source:           s.Name(),
		ScrapedAt:        scrapedAt,
	}
}

// parseMedlocumPayload digs the Inertia JSON out of the #app element.
func parseMedlocumPayload(body string) (*medlocumPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	dataPage, ok := doc.Find("div#app").Attr("data-page")
	if !ok || dataPage == "" {
		return nil, fmt.Errorf("no data-page attribute on #app")
	}

	var payload medlocumPage
	if err := json.Unmarshal([]byte(dataPage), &payload); err != nil {
		return nil, fmt.Errorf("decode data-page payload: %w", err)
	}
	return &payload, nil
}
