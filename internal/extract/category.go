package extract

import "strings"

// categoryRule maps title keywords to one category label. Rules are
// evaluated in order; the first group with a match wins.
type categoryRule struct {
	label    string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Dentist", []string{"dentist", "dental"}},
	{"Medical Laboratory Scientist", []string{"medical laboratory"}},
	{"Pharmacist", []string{"pharmacist", "pharmacy"}},
	{"Nurse", []string{"midwife", "midwifery", "nurse", "nursing", "matron"}},
	{"Doctor", []string{
		"medical officer", "doctor", "physician", "obstetrician",
		"gynaecologist", "gynecologist", "general practitioner", "oncology",
	}},
	{"Public Health", []string{
		"public health", "program officer", "programme officer",
		"epidemiology", "surveillance", "health systems", "health security",
		"project officer",
	}},
	{"Healthcare Management", []string{
		"director", "manager", "coordinator", "provost", "hse ",
		"quality officer", "inventory", "warehouse",
	}},
	{"Allied Health", []string{
		"physiotherapist", "optometrist", "therapist", "radiographer",
		"dietitian", "nutritionist",
	}},
}

// ClassifyCategory derives a job category from title keywords. An empty
// result means no keyword matched and the LLM's classification stands.
func ClassifyCategory(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return ""
	}
	for _, rule := range categoryRules {
		// "laboratory scientist" without the "medical" prefix still counts.
		if rule.label == "Medical Laboratory Scientist" &&
			strings.Contains(t, "laboratory") && strings.Contains(t, "scientist") {
			return rule.label
		}
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.label
			}
		}
	}
	return ""
}
