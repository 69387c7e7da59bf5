package pattern

import "regexp"

// NigerianLocations lists the states and major cities used for free-text
// location matching. State names double as city names where they coincide.
var NigerianLocations = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu",
	"Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi",
	"Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo",
	"Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
	"Abuja", "FCT", "Port Harcourt", "Ibadan", "Benin City", "Calabar",
	"Uyo", "Warri", "Abeokuta", "Onitsha", "Owerri", "Jos", "Ilorin",
	"Maiduguri", "Zaria", "Aba", "Ikeja", "Lekki", "Victoria Island",
	"Surulere", "Yaba", "Ikorodu", "Ajah", "Gwagwalada", "Asaba", "Awka",
	"Akure", "Ado Ekiti", "Osogbo", "Makurdi", "Minna", "Lokoja", "Yenagoa",
	"Umuahia", "Abakaliki", "Katsina", "Dutse", "Birnin Kebbi", "Gusau",
	"Damaturu", "Jalingo", "Lafia", "Ogbomoso", "Sagamu", "Nnewi", "Nsukka",
}

type locationPattern struct {
	name string
	re   *regexp.Regexp
}

// locationPatterns pairs each location with its compiled word-boundary
// matcher, deduplicated (some names are both a state and its capital).
var locationPatterns = compileLocations(NigerianLocations)

func compileLocations(names []string) []locationPattern {
	out := make([]locationPattern, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, locationPattern{
			name: name,
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	return out
}
