package htmltext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips tags", "<p>Medical <b>Officer</b> needed</p>", "Medical Officer needed"},
		{"unescapes entities", "Nurse &amp; Midwife", "Nurse & Midwife"},
		{"double encoded", "&lt;p&gt;Pharmacist&lt;/p&gt;", "Pharmacist"},
		{"collapses whitespace", "  too \n\n many   spaces ", "too many spaces"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.input); got != tt.want {
				t.Errorf("Flatten(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripAds(t *testing.T) {
	page := `<html><body>
		<div class="content">Job description here</div>
		<ins class="adsbygoogle">ad</ins>
		<script>tracker()</script>
		<div class="sponsored-links">buy stuff</div>
		<div class="cookie-consent">accept cookies</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	StripAds(doc)

	text := doc.Text()
	if !strings.Contains(text, "Job description here") {
		t.Error("StripAds removed real content")
	}
	for _, leftover := range []string{"buy stuff", "tracker()", "accept cookies"} {
		if strings.Contains(text, leftover) {
			t.Errorf("StripAds left ad content %q", leftover)
		}
	}
}

func TestCleanRawContent(t *testing.T) {
	in := "Role details\n\nAdvertisement something\n\n\n\nShare this post\nMore details"
	got := CleanRawContent(in)
	if strings.Contains(got, "Advertisement") || strings.Contains(got, "Share this") {
		t.Errorf("ad lines survived: %q", got)
	}
	if !strings.Contains(got, "Role details") || !strings.Contains(got, "More details") {
		t.Errorf("real content lost: %q", got)
	}
}

func TestHasProtectedEmail(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"cloudflare endpoint", `<a href="/cdn-cgi/l/email-protection#abcd">contact</a>`, true},
		{"cf email class", `<span class="__cf_email__" data-cfemail="ab">x</span>`, true},
		{"redacted phrase", "please email redacted for details", true},
		{"plain email", `mail <a href="mailto:hr@clinic.ng">hr</a>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasProtectedEmail(tt.html); got != tt.want {
				t.Errorf("HasProtectedEmail() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate = %q, want abc", got)
	}
	if got := Truncate("ab", 10); got != "ab" {
		t.Errorf("Truncate = %q, want ab", got)
	}
	// never splits a multi-byte rune
	got := Truncate("₦₦₦", 4)
	if got != "₦" {
		t.Errorf("Truncate = %q, want single naira sign", got)
	}
}
