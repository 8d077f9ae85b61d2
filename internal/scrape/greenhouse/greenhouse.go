package greenhouse

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

const defaultBaseURL = "https://boards-api.greenhouse.io/v1/boards"

type Company struct {
	Slug string // boards-api.greenhouse.io/v1/boards/<slug>/jobs
	Name string // display name; defaults to the title-cased slug
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

func (s *Scraper) Name() string { return "greenhouse" }

// Board API schema; we defensively parse only what we need.
type boardResponse struct {
	Jobs []boardJob `json:"jobs"`
}

type boardJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"` // html
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
	Offices []struct {
		Name string `json:"name"`
	} `json:"offices"`
	Metadata []struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	} `json:"metadata"`
	RequisitionID string `json:"requisition_id"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Companies, s.fetchCompany)
	log.Printf("[ats:greenhouse] companies=%d postings=%d failed=%d",
		len(s.cfg.Companies), len(postings), len(failures))
	return types.Settle("Greenhouse", postings, len(s.cfg.Companies), failures), nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.JobPosting, error) {
	apiURL := fmt.Sprintf("%s/%s/jobs?content=true", s.cfg.BaseURL, co.Slug)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse %s: %w", co.Slug, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("greenhouse %s: status %d", co.Slug, res.StatusCode)
	}

	var board boardResponse
	if err := json.NewDecoder(res.Body).Decode(&board); err != nil {
		return nil, fmt.Errorf("greenhouse %s: decode: %w", co.Slug, err)
	}

	name := co.Name
	if name == "" {
		name = co.Slug
	}

	var out []domain.JobPosting
	for _, j := range board.Jobs {
		if !s.cls.IsTargetRole(j.Title) || !s.cls.IsUSALocation(j.Location.Name) {
			continue
		}

		desc := j.Content
		if strings.TrimSpace(desc) == "" {
			// thin postings still carry department/office hints
			var parts []string
			for _, d := range j.Departments {
				parts = append(parts, d.Name)
			}
			for _, o := range j.Offices {
				parts = append(parts, o.Name)
			}
			if len(parts) > 0 {
				desc = "Department: " + strings.Join(parts, " ")
			}
		}

		out = append(out, domain.New(domain.JobPosting{
			Company:        name,
			Title:          j.Title,
			Location:       j.Location.Name,
			URL:            j.AbsoluteURL,
			PostedDate:     j.UpdatedAt,
			Source:         "Greenhouse",
			JobID:          fmt.Sprintf("%d", j.ID),
			Description:    desc,
			EmploymentType: employmentType(j),
		}))
	}
	return out, nil
}

func employmentType(j boardJob) string {
	var parts []string
	for _, m := range j.Metadata {
		if !strings.Contains(strings.ToLower(m.Name), "employment") {
			continue
		}
		var v string
		if err := json.Unmarshal(m.Value, &v); err == nil && v != "" {
			parts = append(parts, v)
		}
	}
	if j.RequisitionID != "" {
		parts = append(parts, "Req: "+j.RequisitionID)
	}
	return strings.Join(parts, " ")
}
