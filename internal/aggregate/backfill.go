package aggregate

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"c2cscout/internal/domain"
	"c2cscout/internal/scrape/util"
	"c2cscout/internal/textutil"
)

// maxBodyBytes bounds how much of a job page gets read during backfill.
const maxBodyBytes = 512 << 10

// descriptionSelectors is tried in order; the first element with
// substantial text wins.
var descriptionSelectors = []string{
	".content",
	".description",
	".job-description",
	".posting-requirements",
	".section-wrapper",
	"[data-qa='job-description']",
	".jobsearch-jobDescriptionText",
	".posting-content",
	".job-detail",
	".job-info",
	".requirements",
	".responsibilities",
	".qualifications",
}

// Describer fetches a job page and pulls out enough description text for
// the contract-type classifier to chew on. Strictly best-effort: any
// failure yields an empty string.
type Describer struct {
	hc      *http.Client
	limiter *util.HostLimiter
}

func NewDescriber(timeout time.Duration, limiter *util.HostLimiter) *Describer {
	return &Describer{
		hc:      util.NewClient(timeout),
		limiter: limiter,
	}
}

func (d *Describer) Describe(ctx context.Context, jobURL string) string {
	if jobURL == "" {
		return ""
	}
	if d.limiter != nil {
		if err := d.limiter.WaitURL(ctx, jobURL); err != nil {
			return ""
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := d.hc.Do(req)
	if err != nil {
		return ""
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return ""
	}

	for _, sel := range descriptionSelectors {
		text := textutil.CleanText(doc.Find(sel).First().Text())
		if len(text) > 100 {
			return textutil.Truncate(text, domain.MaxDescriptionLen)
		}
	}

	// last resort: whole-page text, if there is enough of it
	if text := textutil.CleanText(doc.Find("body").Text()); len(text) > 500 {
		return textutil.Truncate(text, 2000)
	}
	return ""
}
