package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"c2cscout/internal/classify"
	"c2cscout/internal/domain"
	"c2cscout/internal/scrape/types"
	"c2cscout/internal/scrape/util"
)

const defaultBaseURL = "https://api.lever.co/v0/postings"

type Company struct {
	Slug string // api.lever.co/v0/postings/<slug>
	Name string
}

type Config struct {
	Companies []Company
	Workers   int
	Timeout   time.Duration
	BaseURL   string // override for tests
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
	return &Scraper{
		cfg:     cfg,
		cls:     cls,
		hc:      util.NewClient(cfg.Timeout),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "lever" }

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location   string `json:"location"`
		Commitment string `json:"commitment"`
		Team       string `json:"team"`
		Level      string `json:"level"`
	} `json:"categories"`
	Description string `json:"description"` // html
	Additional  string `json:"additional"`
	Lists       []struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	} `json:"lists"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Companies, s.fetchCompany)
	log.Printf("[ats:lever] companies=%d postings=%d failed=%d",
		len(s.cfg.Companies), len(postings), len(failures))
	return types.Settle("Lever", postings, len(s.cfg.Companies), failures), nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.JobPosting, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", s.cfg.BaseURL, co.Slug)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever %s: %w", co.Slug, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lever %s: status %d", co.Slug, res.StatusCode)
	}

	var raw []leverPosting
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("lever %s: decode: %w", co.Slug, err)
	}

	name := co.Name
	if name == "" {
		name = co.Slug
	}

	var out []domain.JobPosting
	for _, p := range raw {
		if !s.cls.IsTargetRole(p.Text) || !s.cls.IsUSALocation(p.Categories.Location) {
			continue
		}

		posted := ""
		if p.CreatedAt > 0 {
			posted = time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339)
		}

		out = append(out, domain.New(domain.JobPosting{
			Company:        name,
			Title:          p.Text,
			Location:       p.Categories.Location,
			URL:            p.HostedURL,
			PostedDate:     posted,
			Source:         "Lever",
			JobID:          p.ID,
			Description:    description(p),
			EmploymentType: employmentType(p),
		}))
	}
	return out, nil
}

// description concatenates every free-text field Lever exposes; the
// requirements/responsibilities lists often carry the contract-type hints
// the top-level description omits.
func description(p leverPosting) string {
	parts := []string{p.Description}
	for _, l := range p.Lists {
		parts = append(parts, l.Content)
	}
	parts = append(parts, p.Additional)
	return strings.Join(parts, " ")
}

func employmentType(p leverPosting) string {
	return strings.TrimSpace(strings.Join([]string{
		p.Categories.Commitment, p.Categories.Team, p.Categories.Level,
	}, " "))
}
