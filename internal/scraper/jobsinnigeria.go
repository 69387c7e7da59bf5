package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/htmltext"
	"github.com/jobbermed/medharvest/internal/model"
	"github.com/jobbermed/medharvest/internal/pattern"
)

const jobsInNigeriaCategoryURL = "https://jobsinnigeria.careers/job-category/healthcaremedical-jobs-in-nigeria"

// protectedEmailApplyText replaces the how-to-apply section when a page hides
// its addresses behind Cloudflare email protection. The extraction pass
// filters it back out, so no placeholder ever reaches subscribers.
const protectedEmailApplyText = "Email protected – see original listing"

var (
	requirementsSectionRegex = regexp.MustCompile(
		`(?is)(?:requirements?|qualifications?\s*(?:and\s*experience)?)[:\s]*(.*?)(?:responsibilities|salary|method of application|how to apply|$)`)
	responsibilitiesSectionRegex = regexp.MustCompile(
		`(?is)responsibilities?[:\s]*(.*?)(?:salary|requirements|method of application|how to apply|qualifications?|$)`)
	howToApplySectionRegex = regexp.MustCompile(
		`(?is)(?:method of application|how to apply)[:\s]*(.*?)(?:note:|deadline|closing|$)`)
)

// jobsInNigeriaListing is one card from the category listing page.
type jobsInNigeriaListing struct {
	Title          string
	Link           string
	EmploymentType string
	Location       string
	DatePosted     string
}

// JobsInNigeriaScraper crawls the healthcare category of jobsinnigeria.careers:
// listing pages for links, then each detail page for the full record.
type JobsInNigeriaScraper struct {
	cfg         config.ScraperConfig
	client      *Client
	seen        model.SeenStore
	logger      *slog.Logger
	categoryURL string
	now         func() time.Time
}

// NewJobsInNigeriaScraper creates the jobsinnigeria.careers adapter. seen may
// be a no-op store when skip tracking is disabled.
func NewJobsInNigeriaScraper(cfg config.ScraperConfig, client *Client, seen model.SeenStore, logger *slog.Logger) *JobsInNigeriaScraper {
	return &JobsInNigeriaScraper{
		cfg:         cfg,
		client:      client,
		seen:        seen,
		logger:      logger,
		categoryURL: jobsInNigeriaCategoryURL,
		now:         time.Now,
	}
}

func (s *JobsInNigeriaScraper) Name() string { return "jobsinnigeria" }

// Scrape walks listing pages until max_pages or an empty page, then fetches
// each job's detail page. Listing data wins only where the detail page has
// nothing.
func (s *JobsInNigeriaScraper) Scrape(ctx context.Context) ([]model.RawJob, error) {
	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	var listings []jobsInNigeriaListing
	for page := 1; page <= maxPages; page++ {
		pageURL := s.categoryURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s/page/%d/", s.categoryURL, page)
		}
		s.logger.Debug("fetching listing page", "scraper", s.Name(), "page", page)

		body, err := s.client.GetPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("listing page fetch failed", "scraper", s.Name(), "page", page, "error", err)
			break
		}

		pageListings, err := parseJobsInNigeriaListings(body)
		if err != nil {
			s.logger.Warn("listing page parse failed", "scraper", s.Name(), "page", page, "error", err)
			break
		}
		if len(pageListings) == 0 {
			break
		}
		listings = append(listings, pageListings...)
	}
	s.logger.Info("collected job links", "scraper", s.Name(), "count", len(listings))

	scrapedAt := s.now().Format(time.RFC3339)
	var out []model.RawJob
	for _, listing := range listings {
		if listing.Link == "" {
			continue
		}
		if seen, err := s.seen.HasSeen(listing.Link); err == nil && seen {
			s.logger.Debug("skipping already-seen listing", "scraper", s.Name(), "link", listing.Link)
			continue
		}

		job, err := s.scrapeDetail(ctx, listing)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("detail fetch failed", "scraper", s.Name(), "link", listing.Link, "error", err)
			continue
		}
		job.Source = s.Name()
		job.ScrapedAt = scrapedAt
		out = append(out, job)

		if err := s.seen.MarkSeen(listing.Link); err != nil {
			s.logger.Warn("mark seen failed", "scraper", s.Name(), "link", listing.Link, "error", err)
		}
	}
	s.logger.Info("scrape complete", "scraper", s.Name(), "jobs", len(out))
	return out, nil
}

func (s *JobsInNigeriaScraper) scrapeDetail(ctx context.Context, listing jobsInNigeriaListing) (model.RawJob, error) {
	body, err := s.client.GetPage(ctx, listing.Link)
	if err != nil {
		return model.RawJob{}, err
	}

	emailProtected := htmltext.HasProtectedEmail(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return model.RawJob{}, fmt.Errorf("parse detail html: %w", err)
	}
	htmltext.StripAds(doc)

	content := doc.Find("div.single-page-content").First()
	if content.Length() == 0 {
		content = doc.Find("article").First()
	}
	if content.Length() == 0 {
		content = doc.Find("#mainContent").First()
	}
	if content.Length() == 0 {
		content = doc.Find("body").First()
	}
	fullText := htmltext.NodeText(content)

	job := model.RawJob{
		Title:          listing.Title,
		Location:       listing.Location,
		JobType:        listing.EmploymentType,
		PostedDate:     listing.DatePosted,
		Link:           listing.Link,
		EmailProtected: emailProtected,
		RawContent:     htmltext.Truncate(htmltext.CleanRawContent(fullText), 5000),
	}
	if emailProtected {
		job.HowToApply = protectedEmailApplyText
	}

	// Structured data first, regex fallbacks only for the gaps.
	if posting, ok := parseJobPosting(doc); ok {
		job.Description = htmltext.Flatten(posting.Description)
		job.Company = posting.HiringOrg.Name
		if posting.DatePosted != "" {
			job.PostedDate = posting.DatePosted
		}
		job.Deadline = posting.ValidThrough
		if string(posting.EmploymentType) != "" {
			job.JobType = string(posting.EmploymentType)
		}
		if loc := posting.Location(); loc != "" {
			job.Location = loc
		}
		job.Salary = posting.Salary()
	}

	if job.Description == "" {
		var parts []string
		content.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
			if i >= 10 {
				return false
			}
			if t := strings.TrimSpace(p.Text()); t != "" {
				parts = append(parts, t)
			}
			return true
		})
		job.Description = htmltext.Truncate(strings.Join(parts, " "), 3000)
	}
	if job.Location == "" {
		job.Location, _ = pattern.Location(fullText)
	}
	if job.Salary == "" {
		job.Salary, _ = pattern.FirstMatch(pattern.SalaryPatterns, fullText)
	}
	if job.JobType == "" {
		job.JobType, _ = pattern.FirstMatch(pattern.JobTypePatterns, fullText)
	}
	job.Experience, _ = pattern.FirstMatch(pattern.ExperiencePatterns, fullText)
	job.Qualification, _ = pattern.FirstMatch(pattern.QualificationPatterns, fullText)
	if job.Deadline == "" {
		job.Deadline, _ = pattern.FirstMatch(pattern.DeadlinePatterns, fullText)
	}
	if !emailProtected {
		job.Email, _ = pattern.Email(fullText)
	}
	job.Phone, _ = pattern.Phone(fullText)

	if m := requirementsSectionRegex.FindStringSubmatch(fullText); m != nil {
		if section := strings.TrimSpace(m[1]); len(section) > 20 {
			job.Requirements = htmltext.Truncate(section, 2000)
		}
	}
	if m := responsibilitiesSectionRegex.FindStringSubmatch(fullText); m != nil {
		if section := strings.TrimSpace(m[1]); len(section) > 20 {
			job.Responsibilities = htmltext.Truncate(section, 2000)
		}
	}
	if !emailProtected {
		if m := howToApplySectionRegex.FindStringSubmatch(fullText); m != nil {
			if section := strings.TrimSpace(m[1]); len(section) > 10 {
				job.HowToApply = htmltext.Truncate(section, 1000)
			}
		}
	}

	return job, nil
}

// parseJobsInNigeriaListings pulls the job cards out of a category page.
func parseJobsInNigeriaListings(body string) ([]jobsInNigeriaListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var listings []jobsInNigeriaListing
	doc.Find("ol.jobs li.job, ol.jobs li.job-alt").Each(func(_ int, card *goquery.Selection) {
		title := card.Find("div#titlo strong a").First()
		if title.Length() == 0 {
			return
		}
		link, _ := title.Attr("href")

		location := strings.TrimSpace(card.Find("div#location").Text())
		location = strings.TrimSpace(strings.TrimPrefix(location, "Location:"))

		listings = append(listings, jobsInNigeriaListing{
			Title:          strings.TrimSpace(title.Text()),
			Link:           link,
			EmploymentType: strings.TrimSpace(card.Find("div#type-tag span.jtype").Text()),
			Location:       location,
			DatePosted:     strings.TrimSpace(card.Find("div#date span.year").Text()),
		})
	})
	return listings, nil
}
