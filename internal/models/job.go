// Typed records exchanged between the scraper, the pipeline and the store.
// The raw side is validated at the extractor's output boundary so downstream
// code never has to nil-check half-populated maps.

package models

import (
	"time"
)

// RawScrapeRecord is the unnormalized output of the field extractor for one
// job-detail page. Absent fields are empty strings, never error values.
type RawScrapeRecord struct {
	Source       string
	URL          string
	ApplyURL     string
	Title        string
	Description  string
	Company      string
	Location     string
	Salary       string
	PostedAtText string
	ScrapedAt    time.Time
}

// CloneWithTitle returns a copy of the record with only the title replaced.
// Used by the multi-role splitter to fan one posting out into N records.
func (r RawScrapeRecord) CloneWithTitle(title string) RawScrapeRecord {
	out := r
	out.Title = title
	return out
}

// NormalizedJobRecord is the output contract of the pipeline. Every field
// has a defined default; a record is never partially well-formed.
type NormalizedJobRecord struct {
	ID                 string    `json:"id"`
	Source             string    `json:"source"`
	URL                string    `json:"url"`
	ApplyURL           string    `json:"apply_url"`
	Title              string    `json:"title"`
	Category           string    `json:"category"`
	Company            string    `json:"company"`
	Location           string    `json:"location"`
	Country            string    `json:"country"`
	Salary             string    `json:"salary"`
	DescriptionSnippet string    `json:"description_snippet"`
	PostedAt           string    `json:"posted_at"`
	ScrapedAt          string    `json:"scraped_at"`
	LastUpdated        string    `json:"last_updated"`
	Emails             []string  `json:"emails"`
	AssembledAt        time.Time `json:"-"`
}

// Fields flattens the record into the field names used by the target
// schema, ready for projection.
func (j NormalizedJobRecord) Fields() map[string]any {
	return map[string]any{
		"id":                  j.ID,
		"source":              j.Source,
		"url":                 j.URL,
		"apply_url":           j.ApplyURL,
		"title":               j.Title,
		"category":            j.Category,
		"company":             j.Company,
		"location":            j.Location,
		"country":             j.Country,
		"salary":              j.Salary,
		"description_snippet": j.DescriptionSnippet,
		"posted_at":           j.PostedAt,
		"scraped_at":          j.ScrapedAt,
		"last_updated":        j.LastUpdated,
		"emails":              j.Emails,
	}
}

// RunStats counts what a scraping run did, for the closing summary.
type RunStats struct {
	Pages   int
	Found   int
	Written int
	Skipped int
	Errors  int
}
