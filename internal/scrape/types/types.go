package types

import (
	"context"

	"c2cscout/internal/domain"
)

// Outcome distinguishes "fetched fine", "some companies/queries failed",
// and "nothing worked" so the aggregator can report accurate per-source
// statistics instead of treating every failure as zero results.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// Result is what a source adapter hands back. Failures carry one reason per
// company/query that yielded nothing; they are informational, never fatal.
type Result struct {
	Source   string
	Postings []domain.JobPosting
	Outcome  Outcome
	Failures []string
}

// Settle derives the outcome from how many work items there were and how
// many of them failed.
func Settle(source string, postings []domain.JobPosting, items int, failures []string) Result {
	r := Result{Source: source, Postings: postings, Failures: failures}
	switch {
	case items > 0 && len(failures) >= items:
		r.Outcome = OutcomeFailed
	case len(failures) > 0:
		r.Outcome = OutcomePartial
	default:
		r.Outcome = OutcomeOK
	}
	return r
}

// Fetcher is the one capability every portal adapter implements.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}
