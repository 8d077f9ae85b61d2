package dice

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"c2cscout/internal/classify"
	"c2cscout/internal/domain"
	"c2cscout/internal/scrape/types"
	"c2cscout/internal/scrape/util"
)

const defaultBaseURL = "https://job-search-api.svc.dhigroupinc.com/v1/dice/jobs/search"

type Config struct {
	Queries []string
	Pages   int // pages per query, 50 results each
	Workers int
	Timeout time.Duration
	BaseURL string // override for tests
}

type Scraper struct {
	cfg     Config
	cls     *classify.Classifier
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, cls *classify.Classifier, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Pages <= 0 {
		cfg.Pages = 2
	}
	return &Scraper{
		cfg:     cfg,
		cls:     cls,
		hc:      util.NewClient(cfg.Timeout),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "dice" }

type searchResponse struct {
	Data []diceJob `json:"data"`
}

type diceJob struct {
	ID             string          `json:"id"`
	JobTitle       string          `json:"jobTitle"`
	Company        string          `json:"company"`
	Summary        string          `json:"summary"`
	PostedDate     string          `json:"postedDate"`
	DetailsPageURL string          `json:"detailsPageUrl"`
	EmploymentType string          `json:"employmentType"`
	JobLocation    json.RawMessage `json:"jobLocation"` // object or array, varies
}

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Queries, s.fetchQuery)
	log.Printf("[ats:dice] queries=%d postings=%d failed=%d",
		len(s.cfg.Queries), len(postings), len(failures))
	return types.Settle("Dice", postings, len(s.cfg.Queries), failures), nil
}

func (s *Scraper) fetchQuery(ctx context.Context, query string) ([]domain.JobPosting, error) {
	var out []domain.JobPosting
	for page := 1; page <= s.cfg.Pages; page++ {
		jobs, err := s.fetchPage(ctx, query, page)
		if err != nil {
			// report the query as failed only if the first page died;
			// a short result set is normal for deeper pages
			if page == 1 {
				return nil, err
			}
			break
		}
		out = append(out, jobs...)
		if len(jobs) == 0 {
			break
		}
	}
	return out, nil
}

func (s *Scraper) fetchPage(ctx context.Context, query string, page int) ([]domain.JobPosting, error) {
	params := url.Values{
		"q":            {query},
		"countryCode2": {"US"},
		"radius":       {"50"},
		"radiusUnit":   {"mi"},
		"page":         {strconv.Itoa(page)},
		"pageSize":     {"50"},
		"facets":       {"employmentType|CONTRACT,positionType|CONTRACT"},
		"fields":       {"id,jobTitle,company,summary,postedDate,detailsPageUrl,employmentType,jobLocation"},
	}
	apiURL := s.cfg.BaseURL + "?" + params.Encode()

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dice %q: %w", query, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dice %q: status %d", query, res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("dice %q: decode: %w", query, err)
	}

	var out []domain.JobPosting
	for _, j := range sr.Data {
		if j.JobTitle == "" || j.Company == "" {
			continue
		}
		loc := jobLocation(j.JobLocation)
		if !s.cls.IsTargetRole(j.JobTitle) || !s.cls.IsUSALocation(loc) {
			continue
		}

		jobURL := j.DetailsPageURL
		if jobURL == "" {
			jobURL = "https://www.dice.com"
		}
		emp := j.EmploymentType
		if emp == "" {
			emp = "Contract"
		}

		out = append(out, domain.New(domain.JobPosting{
			Company:        j.Company,
			Title:          j.JobTitle,
			Location:       loc,
			URL:            jobURL,
			PostedDate:     j.PostedDate,
			Source:         "Dice",
			JobID:          j.ID,
			Description:    j.Summary,
			EmploymentType: emp,
		}))
	}
	return out, nil
}

// jobLocation tolerates both shapes the API returns: a single object or an
// array of them. Anything unparseable falls back to "USA".
func jobLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "USA"
	}
	type loc struct {
		DisplayName string `json:"displayName"`
	}
	var one loc
	if err := json.Unmarshal(raw, &one); err == nil && one.DisplayName != "" {
		return one.DisplayName
	}
	var many []loc
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 && many[0].DisplayName != "" {
		return many[0].DisplayName
	}
	return "USA"
}
