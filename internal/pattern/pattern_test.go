package pattern

import "testing"

func TestFirstMatch_Salary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "labelled salary line",
			text: "Job Title: Nurse\nSalary: NGN 250,000 monthly\nLocation: Lagos",
			want: "NGN 250,000 monthly",
			ok:   true,
		},
		{
			name: "naira range",
			text: "We offer ₦150,000 - ₦200,000 per month plus benefits",
			want: "₦150,000 - ₦200,000 per month",
			ok:   true,
		},
		{
			name: "lowercase ngn amount",
			text: "pays ngn 250,000 with accommodation",
			want: "ngn 250,000",
			ok:   true,
		},
		{
			name: "remuneration label",
			text: "Remuneration: Attractive and negotiable",
			want: "Attractive and negotiable",
			ok:   true,
		},
		{
			name: "no salary at all",
			text: "Join our team of dedicated professionals",
			want: "",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstMatch(SalaryPatterns, tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("FirstMatch() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFirstMatch_Deadline(t *testing.T) {
	got, ok := FirstMatch(DeadlinePatterns, "Application Closing Date: 27th January, 2026\nMore text")
	if !ok || got != "27th January, 2026" {
		t.Errorf("FirstMatch() = (%q, %v), want closing date line", got, ok)
	}

	got, ok = FirstMatch(DeadlinePatterns, "closes 6 weeks from the date of this publication.")
	if !ok || got == "" {
		t.Errorf("FirstMatch() = (%q, %v), want relative deadline text", got, ok)
	}
}

func TestFirstMatch_Experience(t *testing.T) {
	got, ok := FirstMatch(ExperiencePatterns, "Minimum 3 years post-qualification experience required")
	if !ok || got != "3" {
		t.Errorf("FirstMatch() = (%q, %v), want (%q, true)", got, ok, "3")
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"plain email", "Send CV to careers@stclinics.ng before Friday", "careers@stclinics.ng", true},
		{"placeholder domain rejected", "mail us at hr@example.com", "", false},
		{"no email", "apply via the portal", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Email(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Email() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	got, ok := Phone("Call 08031234567 or visit our office")
	if !ok || got != "08031234567" {
		t.Errorf("Phone() = (%q, %v), want Nigerian mobile", got, ok)
	}
	if _, ok := Phone("no numbers here"); ok {
		t.Error("Phone() matched text with no phone number")
	}
}

func TestLocation(t *testing.T) {
	got, ok := Location("The role is based in Port Harcourt, Rivers State.")
	if !ok || got == "" {
		t.Fatalf("Location() = (%q, %v), want a match", got, ok)
	}

	got, ok = Location("Location: Ikeja, Lagos\nrest of posting")
	if !ok || got != "Ikeja, Lagos" {
		t.Errorf("Location() = (%q, %v), want explicit location line", got, ok)
	}

	if _, ok := Location("fully remote worldwide"); ok {
		t.Error("Location() matched text with no Nigerian location")
	}
}

func TestStripEmails(t *testing.T) {
	got := StripEmails("Send your CV to jobs@hospital.ng today")
	if ContainsEmail(got) {
		t.Errorf("StripEmails() left an email behind: %q", got)
	}
}
