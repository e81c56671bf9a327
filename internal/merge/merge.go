// Package merge unions the aggregated scraping results with the official
// search API results and removes cross-list duplicates.
package merge

import (
	"strings"

	"github.com/empleoradar/backend/internal/domain"
)

// Meta summarizes a merged result set.
type Meta struct {
	External int                   `json:"external"`
	Official int                   `json:"official"`
	Sources  map[domain.Source]int `json:"sources"`
}

// Signature is the composite identity used to spot duplicates: the same
// posting scraped twice from one portal collapses, while the same posting
// on two portals is kept once per portal.
func Signature(j domain.JobRecord) string {
	return strings.ToLower(string(j.Source)) + "-" +
		strings.ToLower(strings.TrimSpace(j.Title)) + "-" +
		strings.ToLower(strings.TrimSpace(j.Company))
}

// Merge concatenates external (priority) and official lists and drops
// duplicate signatures, keeping the first occurrence. Relative order is
// otherwise preserved.
func Merge(external, official []domain.JobRecord) ([]domain.JobRecord, Meta) {
	meta := Meta{
		External: len(external),
		Official: len(official),
		Sources:  make(map[domain.Source]int),
	}

	seen := make(map[string]bool, len(external)+len(official))
	unique := make([]domain.JobRecord, 0, len(external)+len(official))

	for _, list := range [][]domain.JobRecord{external, official} {
		for _, job := range list {
			sig := Signature(job)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			unique = append(unique, job)
			meta.Sources[job.Source]++
		}
	}

	return unique, meta
}
