package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/htmltext"
	"github.com/jobbermed/medharvest/internal/model"
	"github.com/jobbermed/medharvest/internal/pattern"
)

const medicalWorldBaseURL = "https://medicalworldnigeria.com"

var (
	companyLineRegex = regexp.MustCompile(`(?i)(?:company|organization|employer|hospital)[:\s]+([^\n]+)`)
	anyURLRegex      = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `]+`)
)

// medicalWorldListing is one card from a posts-by-profession page.
type medicalWorldListing struct {
	Title      string
	Link       string
	DatePosted string
}

// MedicalWorldScraper crawls medicalworldnigeria.com profession by
// profession. Each configured profession maps to a numeric board ID.
type MedicalWorldScraper struct {
	cfg     config.ScraperConfig
	client  *Client
	seen    model.SeenStore
	logger  *slog.Logger
	baseURL string
	now     func() time.Time
}

// NewMedicalWorldScraper creates the medicalworldnigeria.com adapter.
func NewMedicalWorldScraper(cfg config.ScraperConfig, client *Client, seen model.SeenStore, logger *slog.Logger) *MedicalWorldScraper {
	return &MedicalWorldScraper{
		cfg:     cfg,
		client:  client,
		seen:    seen,
		logger:  logger,
		baseURL: medicalWorldBaseURL,
		now:     time.Now,
	}
}

func (s *MedicalWorldScraper) Name() string { return "medicalworldnigeria" }

// Scrape walks every configured profession board in name order so runs are
// deterministic, collecting links first and detail pages second.
func (s *MedicalWorldScraper) Scrape(ctx context.Context) ([]model.RawJob, error) {
	professions := s.cfg.Professions
	if len(professions) == 0 {
		professions = map[string]int{"Doctors": 7, "Nurses": 14}
	}
	names := make([]string, 0, len(professions))
	for name := range professions {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []model.RawJob
	for _, name := range names {
		jobs, err := s.scrapeProfession(ctx, name, professions[name])
		if err != nil {
			return nil, err
		}
		s.logger.Info("profession complete", "scraper", s.Name(), "profession", name, "jobs", len(jobs))
		out = append(out, jobs...)
	}
	s.logger.Info("scrape complete", "scraper", s.Name(), "jobs", len(out))
	return out, nil
}

func (s *MedicalWorldScraper) scrapeProfession(ctx context.Context, profession string, boardID int) ([]model.RawJob, error) {
	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 4
	}

	var listings []medicalWorldListing
	for page := 1; page <= maxPages; page++ {
		pageURL := fmt.Sprintf("%s/posts-by-profession/%d?page=%d", s.baseURL, boardID, page)
		s.logger.Debug("fetching listing page", "scraper", s.Name(), "profession", profession, "page", page)

		body, err := s.client.GetPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("listing page fetch failed", "scraper", s.Name(), "page", page, "error", err)
			break
		}

		pageListings, err := parseMedicalWorldListings(body)
		if err != nil {
			s.logger.Warn("listing page parse failed", "scraper", s.Name(), "page", page, "error", err)
			break
		}
		if len(pageListings) == 0 {
			break
		}
		listings = append(listings, pageListings...)
	}

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

		job, ok, err := s.scrapeDetail(ctx, listing)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("detail fetch failed", "scraper", s.Name(), "link", listing.Link, "error", err)
			continue
		}
		if !ok {
			s.logger.Debug("detail page had no content block", "scraper", s.Name(), "link", listing.Link)
			continue
		}
		job.Profession = profession
		job.Source = s.Name()
		job.ScrapedAt = scrapedAt
		out = append(out, job)

		if err := s.seen.MarkSeen(listing.Link); err != nil {
			s.logger.Warn("mark seen failed", "scraper", s.Name(), "link", listing.Link, "error", err)
		}
	}
	return out, nil
}

// scrapeDetail returns ok=false when the page has no recognizable content
// block; such listings are skipped rather than emitted half-empty.
func (s *MedicalWorldScraper) scrapeDetail(ctx context.Context, listing medicalWorldListing) (model.RawJob, bool, error) {
	body, err := s.client.GetPage(ctx, listing.Link)
	if err != nil {
		return model.RawJob{}, false, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return model.RawJob{}, false, fmt.Errorf("parse detail html: %w", err)
	}

	content := doc.Find("div.single-page-content").First()
	if content.Length() == 0 {
		return model.RawJob{}, false, nil
	}
	fullText := htmltext.NodeText(content)

	job := model.RawJob{
		Title:      listing.Title,
		PostedDate: listing.DatePosted,
		Link:       listing.Link,
		RawContent: htmltext.Truncate(fullText, 5000),
	}

	var parts []string
	content.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if i >= 5 {
			return false
		}
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	job.Description = htmltext.Truncate(strings.Join(parts, " "), 1500)

	job.Location, _ = pattern.Location(fullText)
	job.Salary, _ = pattern.FirstMatch(pattern.SalaryPatterns, fullText)
	job.JobType, _ = pattern.FirstMatch(pattern.JobTypePatterns, fullText)
	job.Experience, _ = pattern.FirstMatch(pattern.ExperiencePatterns, fullText)
	job.Qualification, _ = pattern.FirstMatch(pattern.QualificationPatterns, fullText)
	job.Deadline, _ = pattern.FirstMatch(pattern.DeadlinePatterns, fullText)
	job.Email, _ = pattern.Email(fullText)
	job.Phone, _ = pattern.Phone(fullText)

	if m := companyLineRegex.FindStringSubmatch(fullText); m != nil {
		job.Company = htmltext.Truncate(strings.TrimSpace(m[1]), 200)
	}
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
	if m := howToApplySectionRegex.FindStringSubmatch(fullText); m != nil {
		if section := strings.TrimSpace(m[1]); len(section) > 10 {
			job.HowToApply = htmltext.Truncate(section, 1000)
		}
	}
	if found := anyURLRegex.FindString(fullText); found != "" && !strings.Contains(found, "medicalworldnigeria") {
		job.Website = found
	}

	return job, true, nil
}

// parseMedicalWorldListings pulls the job cards out of a board page.
func parseMedicalWorldListings(body string) ([]medicalWorldListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var listings []medicalWorldListing
	doc.Find("div.newz").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h5 a").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")

		date := strings.TrimSpace(card.Find("p.post_date").Text())
		date = strings.TrimSpace(strings.TrimPrefix(date, "Posted on:"))

		listings = append(listings, medicalWorldListing{
			Title:      strings.TrimSpace(link.Text()),
			Link:       href,
			DatePosted: date,
		})
	})
	return listings, nil
}
