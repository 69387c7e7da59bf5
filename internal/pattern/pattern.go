package pattern

import (
	"regexp"
	"strings"
)

// Regex sets for pulling structured fields out of free job-posting text.
// Each list is tried in order; the first hit wins. Compiled once at init.

var PhonePatterns = compileAll([]string{
	`(?:\+234|0)[789]\d{9}`,
	`(?:\+234|0)\s*[789]\d{2}[\s\-]?\d{3}[\s\-]?\d{4}`,
	`\d{4}[\s-]?\d{3}[\s-]?\d{4}`,
})

var SalaryPatterns = compileAll([]string{
	`(?i)salary[:\s]+([^\n]+)`,
	`(?i)remuneration[:\s]+([^\n]+)`,
	`(?i)compensation[:\s]+([^\n]+)`,
	`(?i)(₦[\d,]+(?:\s*-\s*₦?[\d,]+)?(?:\s*per\s*\w+)?)`,
	`(?i)(NGN[\s]?[\d,]+(?:\s*-\s*[\d,]+)?)`,
	`(?i)(N[\d,]+(?:\s*-\s*N?[\d,]+)?(?:\s*per\s*\w+)?)`,
	`(\d{1,3}(?:,\d{3})+(?:\s*-\s*\d{1,3}(?:,\d{3})+)?)`,
})

var QualificationPatterns = compileAll([]string{
	`(?i)(MBBS|M\.?B\.?B\.?S|B\.?Sc|M\.?Sc|Ph\.?D|HND|OND|RN|BNSc|Fellow|MDCN|Diploma|Bachelor|Master|Degree|BPharm|PharmD)`,
	`(?i)must possess[:\s]+([^\n]+)`,
	`(?i)educational qualification[:\s]+([^\n]+)`,
	`(?i)education[:\s]+([^\n]+)`,
})

var DeadlinePatterns = compileAll([]string{
	`(?i)application closing date[:\s]+([^\n]+)`,
	`(?i)closes?\s+(\d+\s*(?:weeks?|days?|months?)\s+from[^\.]+)`,
	`(?i)deadline[:\s]+([^\n]+)`,
	`(?i)closing date[:\s]+([^\n]+)`,
	`(?i)applications?\s+close[s]?\s+(?:on\s+)?([^\n\.]+)`,
	`(?i)expires?[:\s]+([^\n]+)`,
	`(?i)valid\s+(?:until|till)[:\s]+([^\n]+)`,
	`(?i)(\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:january|february|march|april|may|june|july|august|september|october|november|december)[,]?\s+\d{4})`,
	`(\d{1,2}[\/\-]\d{1,2}[\/\-]\d{2,4})`,
})

var ExperiencePatterns = compileAll([]string{
	`(?i)(\d+)\s*(?:\+)?\s*years?\s*(?:of\s+)?(?:experience|post[- ]?qualification)`,
	`(?i)(?:minimum|at least)\s+(\d+)\s*years?`,
	`(?i)experience[:\s]+([^\n]+)`,
	`(?i)(\d+\s*-\s*\d+)\s*years?\s*(?:of\s+)?experience`,
	`(?i)work experience[:\s]+([^\n]+)`,
})

var JobTypePatterns = compileAll([]string{
	`(?i)job type[:\s]+([^\n]+)`,
	`(?i)employment type[:\s]+([^\n]+)`,
	`(?i)(full[- ]?time|part[- ]?time|contract|temporary|permanent|internship|remote|hybrid|locum|volunteer)`,
})

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

var locationLineRegex = regexp.MustCompile(`(?i)location[:\s]+([^\n]+)`)

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// FirstMatch tries each pattern in order and returns the first capture group
// of the first pattern that matches (or the whole match when the pattern has
// no groups). Returns "" and false when nothing matches.
func FirstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return strings.TrimSpace(m[1]), true
		}
		return strings.TrimSpace(m[0]), true
	}
	return "", false
}

// Email extracts the first plausible email address, ignoring placeholder domains.
func Email(text string) (string, bool) {
	m := emailRegex.FindString(text)
	if m == "" {
		return "", false
	}
	lowered := strings.ToLower(m)
	for _, fake := range []string{"example.com", "test.com", "email.com"} {
		if strings.Contains(lowered, fake) {
			return "", false
		}
	}
	return m, true
}

// ContainsEmail reports whether text contains anything that looks like an email.
func ContainsEmail(text string) bool {
	return emailRegex.MatchString(text)
}

// StripEmails removes every email-looking token from text.
func StripEmails(text string) string {
	return emailRegex.ReplaceAllString(text, "")
}

// Phone extracts the first Nigerian-format phone number.
func Phone(text string) (string, bool) {
	for _, re := range PhonePatterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// Location pulls a location out of free text: an explicit "Location:" line
// first, then known Nigerian city/state names (up to three, order preserved).
func Location(text string) (string, bool) {
	if m := locationLineRegex.FindStringSubmatch(text); m != nil {
		loc := strings.TrimSpace(m[1])
		if len(loc) > 100 {
			loc = loc[:100]
		}
		return loc, true
	}

	var found []string
	for _, lp := range locationPatterns {
		if lp.re.MatchString(text) {
			found = append(found, lp.name)
			if len(found) == 3 {
				break
			}
		}
	}
	if len(found) == 0 {
		return "", false
	}
	return strings.Join(found, ", "), true
}
