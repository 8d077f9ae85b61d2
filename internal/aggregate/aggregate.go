package aggregate

import (
	"context"
	"log"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"c2cscout/internal/classify"
	"c2cscout/internal/domain"
	"c2cscout/internal/scrape/types"
)

// SourceStat is the per-source slice of the run report.
type SourceStat struct {
	Source   string
	Fetched  int
	Outcome  types.Outcome
	Failures []string
}

// Stats reports the raw -> unique -> filtered funnel for one run.
type Stats struct {
	Raw      int
	Unique   int
	Filtered int
	Sources  []SourceStat
}

// Aggregator fans out to every adapter, dedupes, backfills thin
// descriptions, and applies the contract-type filter as a second pass.
type Aggregator struct {
	fetchers  []types.Fetcher
	cls       *classify.Classifier
	describer *Describer
	perSource time.Duration
}

func New(fetchers []types.Fetcher, cls *classify.Classifier, describer *Describer, perSource time.Duration) *Aggregator {
	if perSource <= 0 {
		perSource = 5 * time.Minute
	}
	return &Aggregator{
		fetchers:  fetchers,
		cls:       cls,
		describer: describer,
		perSource: perSource,
	}
}

// Run executes the whole pipeline stage. A failing source never cancels
// its siblings; it just shows up as a failed entry in the stats.
func (a *Aggregator) Run(ctx context.Context) ([]domain.JobPosting, Stats, error) {
	results := make(chan types.Result, len(a.fetchers))

	var g errgroup.Group
	for _, f := range a.fetchers {
		f := f
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, a.perSource)
			defer cancel()

			log.Printf("[aggregate] running source=%s", f.Name())
			res, err := f.Fetch(fctx)
			if err != nil {
				log.Printf("[aggregate] source=%s error: %v", f.Name(), err)
				results <- types.Result{
					Source:   f.Name(),
					Outcome:  types.OutcomeFailed,
					Failures: []string{err.Error()},
				}
				return nil // best-effort: don't cancel siblings
			}
			results <- res
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	var stats Stats
	var all []domain.JobPosting
	for res := range results {
		stats.Sources = append(stats.Sources, SourceStat{
			Source:   res.Source,
			Fetched:  len(res.Postings),
			Outcome:  res.Outcome,
			Failures: res.Failures,
		})
		all = append(all, res.Postings...)
	}
	stats.Raw = len(all)

	unique := dedupe(all)
	stats.Unique = len(unique)

	kept := a.filterContract(ctx, unique)
	stats.Filtered = len(kept)

	log.Printf("[aggregate] raw=%d unique=%d filtered=%d", stats.Raw, stats.Unique, stats.Filtered)
	for _, src := range stats.Sources {
		log.Printf("[aggregate] source=%s fetched=%d outcome=%s failures=%d",
			src.Source, src.Fetched, src.Outcome, len(src.Failures))
	}

	return kept, stats, nil
}

// dedupe keeps the first posting seen per (company, title) key, preserving
// input order.
func dedupe(postings []domain.JobPosting) []domain.JobPosting {
	seen := mapset.NewThreadUnsafeSet[domain.Key]()
	out := make([]domain.JobPosting, 0, len(postings))
	for _, p := range postings {
		if seen.Add(p.Key()) {
			out = append(out, p)
		}
	}
	return out
}

// filterContract runs the contract-type classifier over each survivor,
// backfilling empty descriptions from the job URL first. The backfill is
// best-effort and never blocks the pipeline on failure.
func (a *Aggregator) filterContract(ctx context.Context, postings []domain.JobPosting) []domain.JobPosting {
	out := make([]domain.JobPosting, 0, len(postings))
	for _, p := range postings {
		if p.Description == "" && a.describer != nil {
			p.Description = a.describer.Describe(ctx, p.URL)
		}

		keep, reason := a.cls.ContractType(p.Description, p.EmploymentType, p.Title)
		if !keep {
			log.Printf("[aggregate] dropped source=%s company=%q title=%q reason=%q",
				p.Source, p.Company, p.Title, reason)
			continue
		}
		out = append(out, p)
	}
	return out
}
