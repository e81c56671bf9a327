package domain

import (
	"fmt"
	"time"
)

// Source identifies the upstream portal a record came from.
type Source string

const (
	SourceInfoJobs     Source = "InfoJobs"
	SourceLinkedIn     Source = "LinkedIn"
	SourceTecnoempleo  Source = "Tecnoempleo"
	SourceIndeed       Source = "Indeed"
	SourceJobatus      Source = "Jobatus"
	SourceInfoempleo   Source = "Infoempleo"
	SourceComputrabajo Source = "Computrabajo"
	SourceRemotive     Source = "Remotive"
	SourceAdzuna       Source = "Adzuna"
)

// KnownSources lists every tag an adapter may emit.
var KnownSources = []Source{
	SourceInfoJobs, SourceLinkedIn, SourceTecnoempleo, SourceIndeed,
	SourceJobatus, SourceInfoempleo, SourceComputrabajo, SourceRemotive,
	SourceAdzuna,
}

// Diagnostic marker tags. A record carrying one of these is a system notice,
// not a real job posting.
const (
	TagAuthError        = "SISTEMA_ERROR"
	TagRateLimit        = "RATE_LIMIT"
	TagSourceRestricted = "SOURCE_RESTRICTED"
	TagRestricted       = "RESTRICCIÓN"
)

var diagnosticTags = map[string]bool{
	TagAuthError:        true,
	TagRateLimit:        true,
	TagSourceRestricted: true,
	TagRestricted:       true,
}

// JobRecord is the unit exchanged between every component. Field names match
// the wire format the browsing UI consumes.
type JobRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	Source      Source   `json:"source"`
	PostedAt    string   `json:"postedAt"`
	Salary      string   `json:"salary"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Logo        *string  `json:"logo"`
}

// Valid reports whether the record survives extraction: a title and a
// canonical external link are both required.
func (j JobRecord) Valid() bool {
	return j.Title != "" && j.URL != ""
}

// IsDiagnostic reports whether the record is a synthetic system notice
// rather than a real posting.
func (j JobRecord) IsDiagnostic() bool {
	for _, t := range j.Tags {
		if diagnosticTags[t] {
			return true
		}
	}
	return false
}

// SyntheticID builds an id for records whose upstream exposes no stable id.
// Not stable across requests.
func SyntheticID(prefix string, index int) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), index)
}

// AuthErrorRecord is the diagnostic record an authenticated adapter returns
// on HTTP 401 instead of failing the aggregation.
func AuthErrorRecord(source Source, id, title, description string) JobRecord {
	return diagnosticRecord(source, id, title, "Sistema", TagAuthError, description)
}

// RateLimitRecord is the diagnostic record for HTTP 429.
func RateLimitRecord(source Source, id, title, company, description string) JobRecord {
	return diagnosticRecord(source, id, title, company, TagRateLimit, description)
}

// RestrictedRecord is the diagnostic record for HTTP 403.
func RestrictedRecord(source Source, id, title, description string) JobRecord {
	return diagnosticRecord(source, id, title, "Sistema", TagSourceRestricted, description)
}

func diagnosticRecord(source Source, id, title, company, tag, description string) JobRecord {
	return JobRecord{
		ID:          id,
		Title:       title,
		Company:     company,
		Location:    "-",
		URL:         "#",
		Source:      source,
		PostedAt:    "Ahora",
		Salary:      "-",
		Tags:        []string{tag},
		Description: description,
	}
}
