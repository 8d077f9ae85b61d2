package util

import (
	"context"
	"net/http"
	"sync"
	"time"

	"c2cscout/internal/domain"
)

// UserAgent is sent on every outbound request. Several boards reject
// requests without a browser-ish agent.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// NewClient builds the HTTP client adapters share: per-request timeout at
// the client level, nothing else special. A hung request dies with a
// timeout error the adapter swallows.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Collect fans items out to a bounded worker pool, waits for every worker
// to finish, and concatenates what they produced. Each worker owns its own
// accumulation, so no locking is needed beyond the channels. One reason
// string comes back per failed item; failures never cancel siblings.
func Collect[T any](ctx context.Context, workers int, items []T,
	fn func(context.Context, T) ([]domain.JobPosting, error)) ([]domain.JobPosting, []string) {

	if len(items) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 8
	}
	if workers > len(items) {
		workers = len(items)
	}

	type batch struct {
		postings []domain.JobPosting
		err      error
	}

	workCh := make(chan T)
	resCh := make(chan batch, len(items))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range workCh {
				postings, err := fn(ctx, item)
				resCh <- batch{postings: postings, err: err}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case workCh <- item:
			}
		}
	}()

	wg.Wait()
	close(resCh)

	var out []domain.JobPosting
	var failures []string
	for b := range resCh {
		if b.err != nil {
			failures = append(failures, b.err.Error())
			continue
		}
		out = append(out, b.postings...)
	}
	return out, failures
}
