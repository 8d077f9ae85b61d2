package remoteok

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"c2cscout/internal/domain"
	"c2cscout/internal/scrape/types"
	"c2cscout/internal/scrape/util"
)

const defaultBaseURL = "https://remoteok.io/api"

// Everything on RemoteOK is remote by definition, so the USA-location gate
// is trivially satisfied and the role gate is relaxed to these stems.
var roleStems = []string{
	"engineer", "developer", "scientist", "analyst", "ai", "ml", "data", "python",
}

type Config struct {
	Tags    []string // extra endpoint filters, e.g. "contract", "freelance"
	PerFeed int      // postings kept per endpoint
	Workers int
	Timeout time.Duration
	BaseURL string // override for tests
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PerFeed <= 0 {
		cfg.PerFeed = 50
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = []string{"", "contract", "freelance"}
	}
	return &Scraper{
		cfg:     cfg,
		hc:      util.NewClient(cfg.Timeout),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "remoteok" }

type remoteJob struct {
	ID          json.RawMessage `json:"id"` // number or string, feed dependent
	Position    string          `json:"position"`
	Company     string          `json:"company"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Date        string          `json:"date"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Tags, s.fetchFeed)
	log.Printf("[ats:remoteok] feeds=%d postings=%d failed=%d",
		len(s.cfg.Tags), len(postings), len(failures))
	return types.Settle("RemoteOK", postings, len(s.cfg.Tags), failures), nil
}

func (s *Scraper) fetchFeed(ctx context.Context, tag string) ([]domain.JobPosting, error) {
	apiURL := s.cfg.BaseURL
	if tag != "" {
		apiURL += "?tags=" + tag
	}

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remoteok %q: %w", tag, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remoteok %q: status %d", tag, res.StatusCode)
	}

	var feed []remoteJob
	if err := json.NewDecoder(res.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("remoteok %q: decode: %w", tag, err)
	}

	// first element is the API's legal notice, not a job
	if len(feed) > 0 {
		feed = feed[1:]
	}
	if len(feed) > s.cfg.PerFeed {
		feed = feed[:s.cfg.PerFeed]
	}

	var out []domain.JobPosting
	for _, j := range feed {
		if j.Position == "" || j.Company == "" {
			continue
		}
		if !matchesRole(j.Position) {
			continue
		}
		jobURL := j.URL
		if jobURL == "" {
			jobURL = "https://remoteok.io"
		}
		out = append(out, domain.New(domain.JobPosting{
			Company:        j.Company,
			Title:          j.Position,
			Location:       "Remote",
			URL:            jobURL,
			PostedDate:     j.Date,
			Source:         "RemoteOK",
			JobID:          rawID(j.ID),
			Description:    j.Description,
			EmploymentType: "Remote Contract",
		}))
	}
	return out, nil
}

func matchesRole(title string) bool {
	low := strings.ToLower(title)
	for _, stem := range roleStems {
		if strings.Contains(low, stem) {
			return true
		}
	}
	return false
}

func rawID(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}
