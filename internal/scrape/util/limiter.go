package util

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// fallbackBucket pools requests whose URL has no usable host, so malformed
// inputs are still throttled instead of bypassing politeness.
const fallbackBucket = "?"

// HostLimiter applies one token bucket per hostname, a single politeness
// policy shared by every adapter and the description backfill. Hostnames
// are compared case-insensitively.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewHostLimiter allows reqPerSec sustained requests per host with the
// given burst. A non-positive rate disables throttling entirely.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	limit := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// WaitURL blocks until the host of raw may be hit again.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := fallbackBucket
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}

	hl.mu.Lock()
	lim, ok := hl.buckets[host]
	if !ok {
		lim = rate.NewLimiter(hl.limit, hl.burst)
		hl.buckets[host] = lim
	}
	hl.mu.Unlock()

	return lim.Wait(ctx)
}
