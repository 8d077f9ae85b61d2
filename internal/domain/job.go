package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"c2cscout/internal/textutil"
)

// MaxDescriptionLen bounds the description carried on a posting. Anything
// longer is truncated at ingestion or backfill time.
const MaxDescriptionLen = 3000

// JobPosting is the one record every adapter produces. Once it passes
// classification downstream stages only filter, never mutate, except for
// the description backfill in the aggregator.
type JobPosting struct {
	Company        string
	Title          string
	Location       string
	URL            string
	PostedDate     string // source-reported, format varies by source
	Source         string
	JobID          string // source-local, not globally unique
	Description    string
	EmploymentType string
}

// Key is the deduplication key: at most one posting survives per Key per
// run, regardless of source. First-seen wins.
type Key struct {
	Company string
	Title   string
}

func (p JobPosting) Key() Key {
	return Key{
		Company: strings.ToLower(strings.TrimSpace(p.Company)),
		Title:   strings.ToLower(strings.TrimSpace(p.Title)),
	}
}

// TitleCase renders a company slug or name for display ("doordash" ->
// "Doordash"). A cases.Caser is stateful and not safe for concurrent use,
// so each call gets its own; New runs on every adapter's worker pool.
func TitleCase(s string) string {
	return cases.Title(language.AmericanEnglish).String(strings.TrimSpace(s))
}

// New applies the ingestion defaults: company is title-cased, free-text
// fields are cleaned, and the description is bounded. Adapters construct
// every posting through here so missing fields default uniformly.
func New(p JobPosting) JobPosting {
	p.Company = TitleCase(p.Company)
	p.Title = textutil.CleanText(p.Title)
	p.Location = textutil.CleanText(p.Location)
	p.Description = textutil.Truncate(textutil.CleanText(p.Description), MaxDescriptionLen)
	p.EmploymentType = textutil.CleanText(p.EmploymentType)
	p.PostedDate = strings.TrimSpace(p.PostedDate)
	p.URL = strings.TrimSpace(p.URL)
	p.JobID = strings.TrimSpace(p.JobID)
	return p
}
