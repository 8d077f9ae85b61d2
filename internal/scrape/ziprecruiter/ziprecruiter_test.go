package ziprecruiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"c2cscout/internal/scrape/types"
)

const searchFixture = `<html><body>
<article class="job_result">
  <a href="https://www.ziprecruiter.com/c/Umbrella/job/ml-engineer-5001">Machine Learning Engineer - Contract</a>
  <span class="company_name">Umbrella Staffing</span>
</article>
<article class="job_result">
  <a href="/relative/path">Data Engineer Position</a>
</article>
<article class="job_result">
  <a href="https://www.ziprecruiter.com/about">See all jobs near you</a>
</article>
</body></html>`

func TestFetchParsesCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("days") != "1" {
			t.Errorf("missing freshness param: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("page") != "1" {
			w.Write([]byte("<html></html>"))
			return
		}
		w.Write([]byte(searchFixture))
	}))
	defer srv.Close()

	s := New(Config{
		Queries: []string{"ml engineer"},
		BaseURL: srv.URL,
	}, nil)

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != types.OutcomeOK {
		t.Errorf("outcome: got %s", res.Outcome)
	}
	// the navigation card has no role word and is dropped
	if len(res.Postings) != 2 {
		t.Fatalf("postings: got %d, want 2", len(res.Postings))
	}

	p := res.Postings[0]
	if p.Company != "Umbrella Staffing" {
		t.Errorf("company: got %q", p.Company)
	}
	if p.URL != "https://www.ziprecruiter.com/c/Umbrella/job/ml-engineer-5001" {
		t.Errorf("url: got %q", p.URL)
	}
	if p.Location != "USA" || p.EmploymentType != "Contract" {
		t.Errorf("unexpected posting: %+v", p)
	}
	if !strings.HasPrefix(p.JobID, "zip_ml_engineer_") {
		t.Errorf("job id: got %q", p.JobID)
	}

	// non-http hrefs fall back to the portal root
	second := res.Postings[1]
	if second.Company != "Ziprecruiter Company" {
		t.Errorf("company fallback: got %q", second.Company)
	}
	if second.URL != "https://www.ziprecruiter.com" {
		t.Errorf("url fallback: got %q", second.URL)
	}
}

func TestFetchFirstPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(Config{Queries: []string{"ml engineer"}, BaseURL: srv.URL}, nil)
	res, _ := s.Fetch(context.Background())
	if res.Outcome != types.OutcomeFailed {
		t.Errorf("outcome: got %s, want failed", res.Outcome)
	}
	if len(res.Failures) != 1 {
		t.Errorf("failures: got %v", res.Failures)
	}
}
