package extract

import "github.com/jobbermed/medharvest/internal/model"

// Dedupe removes duplicates by (lower-cased title, lower-cased company);
// the first occurrence wins and order is otherwise preserved.
func Dedupe(jobs []model.CanonicalJob) []model.CanonicalJob {
	seen := make(map[string]bool, len(jobs))
	out := make([]model.CanonicalJob, 0, len(jobs))
	for _, job := range jobs {
		key := job.DedupeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, job)
	}
	return out
}
