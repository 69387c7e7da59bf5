// Package htmltext flattens and sanitizes scraped HTML: tag stripping,
// ad-element removal and Cloudflare email-protection detection.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	blankRunsRegex  = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// adSelectors are removed wholesale from detail pages before text extraction.
var adSelectors = []string{
	".adsbygoogle",
	"ins.adsbygoogle",
	"script",
	"style",
	"iframe",
	"noscript",
	".ads",
	".advertisement",
	"#floating_ads",
	".floating_ads",
	".wp-cookie-pro",
	"#wp-cookie-pro",
	".cookie-consent",
	".banner",
	`[class*="sponsor"]`,
	`[class*="promo"]`,
}

var adClassRegex = regexp.MustCompile(`(?i)ad[s]?[-_]?|banner|sponsor|promo`)

var adLineRegexes = compileAll([]string{
	`(?i)adsbygoogle.*`,
	`(?i)Loading\.\.\.`,
	`(?i)Advertisement.*`,
	`(?i)Sponsored.*`,
	`(?i)cookies?.*consent.*`,
	`(?i)Subscribe.*newsletter.*`,
	`(?i)Share this.*`,
	`(?i)Facebook.*Twitter.*`,
	`(?i)Related\s+(?:Jobs|Posts).*`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Flatten converts an HTML or HTML-encoded fragment to plain text: entities
// unescaped, tags stripped, whitespace collapsed.
func Flatten(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = tagRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// StripAds removes ad, tracking and consent elements from a parsed document
// in place and returns it for chaining.
func StripAds(doc *goquery.Document) *goquery.Document {
	for _, sel := range adSelectors {
		doc.Find(sel).Remove()
	}
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if adClassRegex.MatchString(class) {
			s.Remove()
		}
	})
	return doc
}

// CleanRawContent drops ad-boilerplate lines from flattened page text and
// collapses runs of blank lines.
func CleanRawContent(text string) string {
	for _, re := range adLineRegexes {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(blankRunsRegex.ReplaceAllString(text, "\n\n"))
}

// HasProtectedEmail reports whether the page hides email addresses behind
// Cloudflare email protection. When true, no email may be extracted or
// fabricated for the job.
func HasProtectedEmail(rawHTML string) bool {
	lowered := strings.ToLower(rawHTML)
	return strings.Contains(lowered, "cdn-cgi/l/email-protection") ||
		strings.Contains(lowered, "__cf_email__") ||
		strings.Contains(lowered, "email-protection") ||
		strings.Contains(lowered, "email protected") ||
		strings.Contains(lowered, "email redacted")
}

// NodeText extracts the visible text of a selection as newline-separated
// lines, one per text node, with surrounding whitespace trimmed.
func NodeText(sel *goquery.Selection) string {
	var lines []string
	for _, node := range sel.Nodes {
		collectText(node, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, out *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*out = append(*out, t)
		}
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

// Truncate caps s at n bytes on a rune boundary.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
