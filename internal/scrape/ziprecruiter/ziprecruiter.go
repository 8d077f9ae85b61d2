package ziprecruiter

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

const defaultBaseURL = "https://www.ziprecruiter.com/jobs/search"

// titleWords gates card titles: ZipRecruiter search pages mix job cards
// with navigation links, and real postings name a role.
var titleWords = []string{"engineer", "developer", "scientist", "analyst"}

type Config struct {
	Queries []string
	Pages   int
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
		cfg.Pages = 2
	}
	return &Scraper{
		cfg:     cfg,
		hc:      util.NewClient(cfg.Timeout),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "ziprecruiter" }

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Queries, s.fetchQuery)
	log.Printf("[scrape:ziprecruiter] queries=%d postings=%d failed=%d",
		len(s.cfg.Queries), len(postings), len(failures))
	return types.Settle("ZipRecruiter", postings, len(s.cfg.Queries), failures), nil
}

func (s *Scraper) fetchQuery(ctx context.Context, term string) ([]domain.JobPosting, error) {
	var out []domain.JobPosting
	for page := 1; page <= s.cfg.Pages; page++ {
		jobs, err := s.fetchPage(ctx, term, page)
		if err != nil {
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

func (s *Scraper) fetchPage(ctx context.Context, term string, page int) ([]domain.JobPosting, error) {
	params := url.Values{
		"search":   {term},
		"location": {"USA"},
		"days":     {"1"},
		"page":     {strconv.Itoa(page)},
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

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ziprecruiter %q: %w", term, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ziprecruiter %q: status %d", term, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("ziprecruiter %q: parse: %w", term, err)
	}

	cards := doc.Find("article[class*='job']")
	if cards.Length() == 0 {
		cards = doc.Find("div[class*='job_result'], div[class*='job-card'], div[class*='job']")
	}

	var out []domain.JobPosting
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= 25 {
			return false
		}

		title := textutil.CleanText(card.Find("a, h2, h3").First().Text())
		if len(title) <= 8 || !looksLikeRole(title) {
			return true
		}

		company := textutil.CleanText(card.Find("[class*='company']").First().Text())
		if company == "" {
			company = "ZipRecruiter Company"
		}

		jobURL := "https://www.ziprecruiter.com"
		if href, ok := card.Find("a[href]").First().Attr("href"); ok && strings.HasPrefix(href, "http") {
			jobURL = href
		}

		out = append(out, domain.New(domain.JobPosting{
			Company:        company,
			Title:          title,
			Location:       "USA",
			URL:            jobURL,
			PostedDate:     time.Now().Format("2006-01-02"),
			Source:         "ZipRecruiter",
			JobID:          syntheticID(term),
			Description:    fmt.Sprintf("%s position via ZipRecruiter", term),
			EmploymentType: "Contract",
		}))
		return true
	})
	return out, nil
}

func looksLikeRole(title string) bool {
	low := strings.ToLower(title)
	for _, w := range titleWords {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

func syntheticID(term string) string {
	slug := strings.ReplaceAll(term, " ", "_")
	return "zip_" + slug + "_" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}
