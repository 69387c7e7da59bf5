package scraper

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jobPosting holds the subset of schema.org JobPosting fields the scrapers
// care about. Sites embed either a single object or an array of typed
// objects in the first ld+json script.
type jobPosting struct {
	Type           string       `json:"@type"`
	Description    string       `json:"description"`
	DatePosted     string       `json:"datePosted"`
	ValidThrough   string       `json:"validThrough"`
	EmploymentType flexString   `json:"employmentType"`
	HiringOrg      orgRef       `json:"hiringOrganization"`
	JobLocation    locationRef  `json:"jobLocation"`
	BaseSalary     *salaryBlock `json:"baseSalary"`
}

type orgRef struct {
	Name string `json:"name"`
}

type locationRef struct {
	Address postalAddress `json:"address"`
}

// UnmarshalJSON tolerates jobLocation being an object, an array of objects,
// or a bare string.
func (l *locationRef) UnmarshalJSON(data []byte) error {
	type plain locationRef
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*l = locationRef(obj)
		return nil
	}
	var arr []plain
	if err := json.Unmarshal(data, &arr); err == nil && len(arr) > 0 {
		*l = locationRef(arr[0])
	}
	return nil
}

type postalAddress struct {
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
}

type salaryBlock struct {
	Currency string      `json:"currency"`
	Value    salaryValue `json:"value"`
}

type salaryValue struct {
	MinValue json.RawMessage `json:"minValue"`
	MaxValue json.RawMessage `json:"maxValue"`
	UnitText string          `json:"unitText"`
}

// flexString accepts a JSON string or an array of strings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = flexString(strings.Join(arr, ", "))
	}
	return nil
}

// parseJobPosting reads the first ld+json script in the document and returns
// its JobPosting entry, if any.
func parseJobPosting(doc *goquery.Document) (jobPosting, bool) {
	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if strings.TrimSpace(raw) == "" {
		return jobPosting{}, false
	}

	var single jobPosting
	if err := json.Unmarshal([]byte(raw), &single); err == nil && single.Type == "JobPosting" {
		return single, true
	}

	var many []jobPosting
	if err := json.Unmarshal([]byte(raw), &many); err == nil {
		for _, p := range many {
			if p.Type == "JobPosting" {
				return p, true
			}
		}
	}
	return jobPosting{}, false
}

// Salary renders the baseSalary block as "NGN 100000 - 250000 per month",
// or "" when either bound is missing.
func (p jobPosting) Salary() string {
	if p.BaseSalary == nil {
		return ""
	}
	minVal := rawNumber(p.BaseSalary.Value.MinValue)
	maxVal := rawNumber(p.BaseSalary.Value.MaxValue)
	if minVal == "" || maxVal == "" {
		return ""
	}
	currency := p.BaseSalary.Currency
	if currency == "" {
		currency = "NGN"
	}
	unit := p.BaseSalary.Value.UnitText
	if unit == "" {
		unit = "MONTH"
	}
	return currency + " " + minVal + " - " + maxVal + " per " + strings.ToLower(unit)
}

// Location joins the postal address parts in street, locality, region order.
func (p jobPosting) Location() string {
	addr := p.JobLocation.Address
	var parts []string
	for _, part := range []string{addr.StreetAddress, addr.AddressLocality, addr.AddressRegion} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// rawNumber renders a JSON number or numeric string without a trailing
// decimal point for round values.
func rawNumber(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
