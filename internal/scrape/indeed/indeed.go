package indeed

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

const defaultBaseURL = "https://www.indeed.com/jobs"

type Config struct {
	Queries []string
	Pages   int // pages per query, 50 results each
	Workers int
	Timeout time.Duration
	BaseURL string // override for tests
}

// Scraper is best-effort by nature: Indeed's markup is not under our
// control and the selector ladder may silently match nothing.
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
		cfg.Pages = 5
	}
	return &Scraper{
		cfg:     cfg,
		hc:      util.NewClient(cfg.Timeout),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "indeed" }

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	postings, failures := util.Collect(ctx, s.cfg.Workers, s.cfg.Queries, s.fetchQuery)
	log.Printf("[scrape:indeed] queries=%d postings=%d failed=%d",
		len(s.cfg.Queries), len(postings), len(failures))
	return types.Settle("Indeed", postings, len(s.cfg.Queries), failures), nil
}

func (s *Scraper) fetchQuery(ctx context.Context, term string) ([]domain.JobPosting, error) {
	var out []domain.JobPosting
	for page := 0; page < s.cfg.Pages; page++ {
		jobs, err := s.fetchPage(ctx, term, page)
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

func (s *Scraper) fetchPage(ctx context.Context, term string, page int) ([]domain.JobPosting, error) {
	params := url.Values{
		"q":     {term + ` (C2C OR "corp to corp" OR "1099" OR contract)`},
		"l":     {"United States"},
		"limit": {"50"},
		"start": {strconv.Itoa(page * 50)},
		"sort":  {"date"},
	}
	pageURL := s.cfg.BaseURL + "?" + params.Encode()

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indeed %q: %w", term, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indeed %q: status %d", term, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("indeed %q: parse: %w", term, err)
	}

	// prioritized card patterns; first non-empty match set wins
	cards := doc.Find("div[data-jk], article[data-jk]")
	if cards.Length() == 0 {
		cards = doc.Find("a[href*='/viewjob']")
	}
	if cards.Length() == 0 {
		cards = doc.Find("h2[class*='jobTitle']")
	}

	var out []domain.JobPosting
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= 100 {
			return false
		}

		title := cardTitle(card)
		if len(title) <= 5 {
			return true
		}

		company := textutil.CleanText(card.Find("[data-testid='company-name']").First().Text())
		if company == "" {
			company = "Indeed Company " + shortID()
		}
		location := textutil.CleanText(card.Find("[data-testid='text-location']").First().Text())
		if location == "" {
			location = "USA Remote"
		}

		jobID, jobURL := cardIdentity(card, term)

		out = append(out, domain.New(domain.JobPosting{
			Company:        company,
			Title:          title,
			Location:       location,
			URL:            jobURL,
			PostedDate:     time.Now().Format("2006-01-02"),
			Source:         "Indeed",
			JobID:          jobID,
			Description:    fmt.Sprintf("Contract %s position - C2C opportunity", term),
			EmploymentType: "Contract",
		}))
		return true
	})
	return out, nil
}

func cardTitle(card *goquery.Selection) string {
	if t, ok := card.Find("h2 span[title], span[title]").First().Attr("title"); ok && t != "" {
		return textutil.CleanText(t)
	}
	if t := textutil.CleanText(card.Find("h2").First().Text()); t != "" {
		return t
	}
	return textutil.CleanText(card.Text())
}

func cardIdentity(card *goquery.Selection, term string) (id, jobURL string) {
	if jk, ok := card.Attr("data-jk"); ok && jk != "" {
		return jk, "https://www.indeed.com/viewjob?jk=" + jk
	}
	if href, ok := card.Attr("href"); ok && href != "" {
		return "indeed_" + shortID(), "https://www.indeed.com" + href
	}
	if href, ok := card.Find("a[href*='/viewjob']").First().Attr("href"); ok && href != "" {
		return "indeed_" + shortID(), "https://www.indeed.com" + href
	}
	// synthetic: no stable URL on this card
	return "indeed_" + shortID(),
		"https://www.indeed.com/jobs?q=" + url.QueryEscape(term)
}

func shortID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
