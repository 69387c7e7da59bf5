package dates

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"slash month name", "25/Jan/2026", date(2026, time.January, 25), true},
		{"dashed numeric", "23-01-2026", date(2026, time.January, 23), true},
		{"dashed with weekday", "23-01-2026 - Friday", date(2026, time.January, 23), true},
		{"iso date", "2026-01-23", date(2026, time.January, 23), true},
		{"full month name", "27 January 2026", date(2026, time.January, 27), true},
		{"abbreviated month", "27 Jan 2026", date(2026, time.January, 27), true},
		{"ordinal suffix and comma", "27th January, 2026", date(2026, time.January, 27), true},
		{"trailing period", "27 January 2026.", date(2026, time.January, 27), true},
		{"iso datetime", "2026-01-23T08:30:00Z", date(2026, time.January, 23), true},
		{"date before time separator", "2026-01-23T08:30:00", date(2026, time.January, 23), true},
		{"garbage", "as soon as possible", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_OrdinalSuffixIndifference(t *testing.T) {
	a, okA := Parse("27th January, 2026")
	b, okB := Parse("27 January 2026")
	if !okA || !okB {
		t.Fatal("both variants should parse")
	}
	if !a.Equal(b) {
		t.Errorf("ordinal variant %v differs from plain %v", a, b)
	}
}

func TestParseRelative(t *testing.T) {
	anchor := date(2026, time.January, 1)

	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"parenthesized amount", "(6) weeks from posting", date(2026, time.February, 12), true},
		{"number word", "six weeks", date(2026, time.February, 12), true},
		{"duplicated digits", "6 6 weeks from the date of publication", date(2026, time.February, 12), true},
		{"days unit", "10 days", date(2026, time.January, 11), true},
		{"months unit", "two months from posting", date(2026, time.March, 2), true},
		{"no unit", "soon", time.Time{}, false},
		{"no amount", "a few weeks", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRelative(tt.input, anchor)
			if ok != tt.ok {
				t.Fatalf("ParseRelative(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseRelative(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRelative_ZeroAnchor(t *testing.T) {
	if _, ok := ParseRelative("6 weeks", time.Time{}); ok {
		t.Error("ParseRelative with zero anchor should fail")
	}
}

func TestISO(t *testing.T) {
	if got := ISO(date(2026, time.February, 12)); got != "2026-02-12" {
		t.Errorf("ISO() = %q, want 2026-02-12", got)
	}
}
