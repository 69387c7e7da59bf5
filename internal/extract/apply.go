package extract

import (
	"regexp"
	"strings"

	"github.com/jobbermed/medharvest/internal/htmltext"
	"github.com/jobbermed/medharvest/internal/model"
	"github.com/jobbermed/medharvest/internal/pattern"
)

// applyCTA is the call-to-action every how_to_apply list ends with.
const applyCTA = "Click the Apply Now button for full details."

// applyPlaceholder is the scraper-side stand-in for protected addresses; it
// must never survive into a canonical record.
const applyPlaceholder = "Email protected – see original listing"

const (
	portalBullet        = "Apply through the employer's online application portal."
	emailBullet         = "Send your application by email to the address in the original listing."
	redactedEmailBullet = "Email the address shown on the original listing (email is protected on some sites)."
)

// atsMarkers indicate portal-based application when found in the apply URL
// or instruction text.
var atsMarkers = []string{
	"myworkdayjobs",
	"greenhouse.io",
	"lever.co",
	"smartrecruiters",
	"seamlesshr",
	"workable.com",
	"bamboohr",
	"taleo",
	"jobvite",
	"apply online",
	"application portal",
	"careers portal",
	"career portal",
	"application form",
}

// emailApplyMarkers indicate email-based application instructions.
var emailApplyMarkers = []string{
	"send your cv",
	"send cv",
	"forward applications",
	"forward your",
	"email your",
	"mail your",
	"applications to",
	"send application",
	"via email",
	"by email",
	"email:",
	"@",
}

var redactionMarkers = []string{
	"__cf_email__",
	"email-protection",
	"email protected",
	"email redacted",
}

var (
	urlRegex     = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	subjectRegex = regexp.MustCompile(`(?i)subject[:\s]+"?([^".\n]{3,80})`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

// NormalizeHowToApply converts the model's proposed instructions plus the
// raw record into 1-2 bullets that never carry a URL or email address and
// always end with the Apply Now call-to-action.
func NormalizeHowToApply(modelBullets []string, raw model.RawJob, applyURL string) []string {
	instruction := strings.Join(append([]string{raw.HowToApply}, modelBullets...), " ")
	lowered := strings.ToLower(instruction)

	redacted := raw.EmailProtected ||
		htmltext.HasProtectedEmail(raw.RawContent) ||
		containsAny(lowered, redactionMarkers)

	var bullets []string
	switch {
	case containsAny(lowered, atsMarkers) || containsAny(strings.ToLower(applyURL), atsMarkers):
		bullets = []string{portalBullet}
	case redacted:
		bullets = []string{redactedEmailBullet}
	case containsAny(lowered, emailApplyMarkers):
		b := emailBullet
		if subject := detectSubject(instruction); subject != "" {
			b += ` Use "` + subject + `" as the subject line.`
		}
		bullets = []string{b}
	default:
		bullets = modelBullets
	}

	bullets = cleanBullets(bullets)
	if len(bullets) > 1 {
		bullets = bullets[:1]
	}
	return append(bullets, applyCTA)
}

// cleanBullets strips emails and URLs from each bullet and drops bullets
// that are empty, placeholder text, the trailing CTA, or still URL-like
// after cleaning.
func cleanBullets(bullets []string) []string {
	var out []string
	for _, b := range bullets {
		b = pattern.StripEmails(urlRegex.ReplaceAllString(b, ""))
		b = strings.TrimSpace(spaceRegex.ReplaceAllString(b, " "))
		if b == "" || strings.EqualFold(b, applyPlaceholder) || strings.EqualFold(b, applyCTA) {
			continue
		}
		lowered := strings.ToLower(b)
		if strings.Contains(lowered, "http") || strings.Contains(lowered, "www.") || pattern.ContainsEmail(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// detectSubject pulls an email subject instruction out of the application
// text, if one exists.
func detectSubject(text string) string {
	m := subjectRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	subject := strings.TrimSpace(m[1])
	if pattern.ContainsEmail(subject) || strings.Contains(strings.ToLower(subject), "http") {
		return ""
	}
	return subject
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
