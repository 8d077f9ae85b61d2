package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"c2cscout/internal/domain"
	"c2cscout/internal/scrape/types"
	"c2cscout/internal/scrape/util"
	"c2cscout/internal/textutil"
)

const defaultBaseURL = "https://www.linkedin.com/jobs/search"

type Config struct {
	Queries []string
	Pages   int // pages per query, 25 results each
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
	if cfg.Pages <= 0 {
		cfg.Pages = 3
	}
	return &Scraper{
		cfg:     cfg,
		hc:      util.NewClient(cfg.Timeout),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "linkedin" }

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Queries, s.fetchQuery)
	log.Printf("[scrape:linkedin] queries=%d postings=%d failed=%d",
		len(s.cfg.Queries), len(postings), len(failures))
	return types.Settle("LinkedIn", postings, len(s.cfg.Queries), failures), nil
}

func (s *Scraper) fetchQuery(ctx context.Context, query string) ([]domain.JobPosting, error) {
	var out []domain.JobPosting
	for page := 0; page < s.cfg.Pages; page++ {
		jobs, err := s.fetchPage(ctx, query, page)
		if err != nil {
			if page == 0 {
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
		"keywords": {query},
		"location": {"United States"},
		"f_TPR":    {"r86400"}, // last 24 hours
		"f_JT":     {"C"},      // contract
		"start":    {strconv.Itoa(page * 25)},
	}
	pageURL := s.cfg.BaseURL + "?" + params.Encode()

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin %q: %w", query, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin %q: status %d", query, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin %q: parse: %w", query, err)
	}

	cards := doc.Find("a[href*='/jobs/view/']")
	if cards.Length() == 0 {
		cards = doc.Find("h3[class*='job'], h4[class*='job']")
	}

	var out []domain.JobPosting
	cards.EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= 30 {
			return false
		}

		title := textutil.CleanText(el.Text())
		if len(title) <= 8 || len(title) >= 150 {
			return true
		}

		company := textutil.CleanText(el.Parent().Find("h4[class*='subtitle'], [class*='company']").First().Text())
		if company == "" {
			company = "LinkedIn Company"
		}

		jobURL := "https://www.linkedin.com/jobs"
		if href, ok := el.Attr("href"); ok && href != "" {
			if strings.HasPrefix(href, "http") {
				jobURL = href
			} else {
				jobURL = "https://www.linkedin.com" + href
			}
		}

		out = append(out, domain.New(domain.JobPosting{
			Company:        company,
			Title:          title,
			Location:       "USA Remote",
			URL:            jobURL,
			PostedDate:     time.Now().Format("2006-01-02"),
			Source:         "LinkedIn",
			JobID:          syntheticID(query),
			Description:    fmt.Sprintf("Professional %s opportunity - C2C contract position", query),
			EmploymentType: "Contract",
		}))
		return true
	})
	return out, nil
}

func syntheticID(query string) string {
	slug := strings.ReplaceAll(query, " ", "_")
	return "linkedin_" + slug + "_" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}
