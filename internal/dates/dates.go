package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts tried in order before the ISO fallbacks. Non-padded day/month
// digits so both "3-1-2026" and "03-01-2026" parse.
var layouts = []string{
	"2/Jan/2006",        // 25/Jan/2026
	"2-1-2006",          // 23-01-2026
	"2-1-2006 - Mon",    // 23-01-2026 - Fri
	"2-1-2006 - Monday", // 23-01-2026 - Friday
	"2006-1-2",          // 2026-01-23
	"2 January 2006",    // 27 January 2026
	"2 Jan 2006",        // 27 Jan 2026
}

// relativeUnits maps a deadline unit word to its length in days.
var relativeUnits = map[string]int{
	"day":    1,
	"days":   1,
	"week":   7,
	"weeks":  7,
	"month":  30,
	"months": 30,
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20, "thirty": 30,
}

var (
	ordinalRegex     = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)\b`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	parenNumberRegex = regexp.MustCompile(`\((\d+)\)`)
	dupNumberRegex   = regexp.MustCompile(`\b(\d+)\s+(\d+)\b`)
	amountUnitRegex  = regexp.MustCompile(`\b(\d+)\s*(days?|weeks?|months?)\b`)
	wordBoundary     = regexp.MustCompile(`[a-z]+`)
)

// Parse turns a free-text date string into a calendar date. Ordinal suffixes,
// commas, trailing periods and repeated whitespace are stripped before the
// layout list is tried; ISO and date-before-"T" fallbacks come last.
// Returns false when the string is unparseable.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = ordinalRegex.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	s = whitespaceRegex.ReplaceAllString(s, " ")

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return truncate(t), true
	}
	if idx := strings.Index(s, "T"); idx > 0 {
		if t, err := time.Parse("2006-1-2", s[:idx]); err == nil {
			return truncate(t), true
		}
	}
	return time.Time{}, false
}

// ParseRelative resolves a relative deadline expression ("6 weeks from
// posting", "(6) weeks", "six weeks") against an anchor date, usually the
// posting date. Returns false when no amount/unit pair is found or the
// computed offset is not positive.
func ParseRelative(text string, anchor time.Time) (time.Time, bool) {
	if text == "" || anchor.IsZero() {
		return time.Time{}, false
	}

	cleaned := normalizeRelative(text)

	m := amountUnitRegex.FindStringSubmatch(cleaned)
	if m == nil {
		return time.Time{}, false
	}

	amount, _ := strconv.Atoi(m[1])
	days := amount * relativeUnits[m[2]]
	if days <= 0 {
		return time.Time{}, false
	}

	return truncate(anchor).AddDate(0, 0, days), true
}

// normalizeRelative lowercases, unwraps "(6)" to "6", flattens punctuation,
// rewrites number words as digits and collapses duplicated numbers
// ("6 6 weeks" -> "6 weeks").
func normalizeRelative(text string) string {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = parenNumberRegex.ReplaceAllString(cleaned, "$1")
	cleaned = strings.NewReplacer(",", " ", ".", " ").Replace(cleaned)
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	cleaned = wordBoundary.ReplaceAllStringFunc(cleaned, func(w string) string {
		if n, ok := numberWords[w]; ok {
			return strconv.Itoa(n)
		}
		return w
	})

	cleaned = dupNumberRegex.ReplaceAllStringFunc(cleaned, func(m string) string {
		parts := strings.Fields(m)
		if len(parts) == 2 && parts[0] == parts[1] {
			return parts[0]
		}
		return m
	})

	return cleaned
}

// ISO formats a date as YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
