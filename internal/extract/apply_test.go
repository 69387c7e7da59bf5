package extract

import (
	"strings"
	"testing"

	"github.com/jobbermed/medharvest/internal/model"
)

func assertCleanBullets(t *testing.T, bullets []string) {
	t.Helper()
	if len(bullets) == 0 || len(bullets) > 2 {
		t.Fatalf("expected 1-2 bullets, got %d: %v", len(bullets), bullets)
	}
	if bullets[len(bullets)-1] != applyCTA {
		t.Errorf("last bullet = %q, want the call-to-action", bullets[len(bullets)-1])
	}
	for _, b := range bullets {
		lowered := strings.ToLower(b)
		if strings.Contains(lowered, "http") || strings.Contains(lowered, "www.") {
			t.Errorf("bullet contains a URL: %q", b)
		}
		if strings.Contains(b, "@") {
			t.Errorf("bullet contains an email: %q", b)
		}
	}
}

func TestNormalizeHowToApplyNeverLeaksURLsOrEmails(t *testing.T) {
	inputs := [][]string{
		{"Apply at https://example.org/careers now"},
		{"Email hr@example.org with your CV"},
		{"Visit www.example.org/jobs", "Send CV to jobs@clinic.ng"},
		{"http://bit.ly/apply-here"},
	}
	for _, modelBullets := range inputs {
		bullets := NormalizeHowToApply(modelBullets, model.RawJob{}, "https://example.org/jobs/1")
		assertCleanBullets(t, bullets)
	}
}

func TestNormalizeHowToApplyPortal(t *testing.T) {
	raw := model.RawJob{HowToApply: "Interested candidates should apply online via our careers portal."}
	bullets := NormalizeHowToApply(nil, raw, "")
	assertCleanBullets(t, bullets)
	if bullets[0] != portalBullet {
		t.Errorf("bullets[0] = %q, want portal bullet", bullets[0])
	}
}

func TestNormalizeHowToApplyATSDomainInApplyURL(t *testing.T) {
	bullets := NormalizeHowToApply(nil, model.RawJob{}, "https://clinic.seamlesshr.com/jobs/nurse")
	assertCleanBullets(t, bullets)
	if bullets[0] != portalBullet {
		t.Errorf("bullets[0] = %q, want portal bullet", bullets[0])
	}
}

func TestNormalizeHowToApplyEmailWithSubject(t *testing.T) {
	raw := model.RawJob{HowToApply: `Send your CV to hr@clinic.ng with Subject: Pharmacist Application`}
	bullets := NormalizeHowToApply(nil, raw, "")
	assertCleanBullets(t, bullets)
	if !strings.Contains(bullets[0], "Pharmacist Application") {
		t.Errorf("bullets[0] = %q, want the subject line captured", bullets[0])
	}
}

func TestNormalizeHowToApplyProtectedEmail(t *testing.T) {
	raw := model.RawJob{
		HowToApply: applyPlaceholder,
		RawContent: `see <a href="/cdn-cgi/l/email-protection#ab">contact</a>`,
	}
	bullets := NormalizeHowToApply([]string{applyPlaceholder}, raw, "")
	assertCleanBullets(t, bullets)
	if bullets[0] != redactedEmailBullet {
		t.Errorf("bullets[0] = %q, want redacted-email bullet", bullets[0])
	}
	for _, b := range bullets {
		if strings.Contains(b, applyPlaceholder) {
			t.Errorf("placeholder leaked into bullets: %q", b)
		}
	}
}

func TestNormalizeHowToApplyEmptyInputFallsBack(t *testing.T) {
	bullets := NormalizeHowToApply(nil, model.RawJob{}, "")
	if len(bullets) != 1 || bullets[0] != applyCTA {
		t.Errorf("bullets = %v, want just the call-to-action", bullets)
	}
}

func TestNormalizeHowToApplyKeepsCleanModelBullet(t *testing.T) {
	bullets := NormalizeHowToApply([]string{
		"Submit a cover letter and practicing license with your application.",
		applyCTA,
	}, model.RawJob{}, "")
	assertCleanBullets(t, bullets)
	if bullets[0] != "Submit a cover letter and practicing license with your application." {
		t.Errorf("bullets[0] = %q", bullets[0])
	}
}
