package greenhouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"c2cscout/internal/classify"
	"c2cscout/internal/scrape/types"
)

const boardFixture = `{
  "jobs": [
    {
      "id": 4011,
      "title": "Machine Learning Engineer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/4011",
      "updated_at": "2026-08-20T10:00:00-04:00",
      "content": "<p>Contract ML role, remote within the US.</p>",
      "location": {"name": "Remote - USA"},
      "metadata": [{"name": "Employment Type", "value": "Contract"}]
    },
    {
      "id": 4012,
      "title": "Machine Learning Engineer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/4012",
      "updated_at": "2026-08-21T10:00:00-04:00",
      "content": "",
      "location": {"name": "London, UK"}
    },
    {
      "id": 4013,
      "title": "Office Manager",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/4013",
      "updated_at": "2026-08-21T10:00:00-04:00",
      "content": "",
      "location": {"name": "New York, NY"}
    },
    {
      "id": 4014,
      "title": "Data Engineer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/4014",
      "updated_at": "2026-08-22T10:00:00-04:00",
      "content": "",
      "location": {"name": "Austin, TX"},
      "departments": [{"name": "Data Platform"}],
      "offices": [{"name": "Austin"}]
    }
  ]
}`

func TestFetchFiltersAndMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/jobs" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(boardFixture))
	}))
	defer srv.Close()

	s := New(Config{
		Companies: []Company{{Slug: "acme", Name: "Acme"}},
		BaseURL:   srv.URL,
	}, classify.New(classify.Keywords{}), nil)

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != types.OutcomeOK {
		t.Errorf("outcome: got %s, want ok", res.Outcome)
	}
	// UK location and non-target title are gated out
	if len(res.Postings) != 2 {
		t.Fatalf("postings: got %d, want 2", len(res.Postings))
	}

	p := res.Postings[0]
	if p.Company != "Acme" || p.Source != "Greenhouse" || p.JobID != "4011" {
		t.Errorf("unexpected posting: %+v", p)
	}
	if p.Description != "Contract ML role, remote within the US." {
		t.Errorf("description: got %q", p.Description)
	}
	if p.EmploymentType != "Contract" {
		t.Errorf("employment type: got %q", p.EmploymentType)
	}

	// thin posting falls back to department/office text
	if got := res.Postings[1].Description; got != "Department: Data Platform Austin" {
		t.Errorf("fallback description: got %q", got)
	}
}

func TestFetchBadStatusFailsCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(Config{
		Companies: []Company{{Slug: "acme"}},
		BaseURL:   srv.URL,
	}, classify.New(classify.Keywords{}), nil)

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != types.OutcomeFailed {
		t.Errorf("outcome: got %s, want failed", res.Outcome)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("failures: got %v", res.Failures)
	}
}

func TestFetchGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	s := New(Config{
		Companies: []Company{{Slug: "acme"}},
		BaseURL:   srv.URL,
	}, classify.New(classify.Keywords{}), nil)

	res, _ := s.Fetch(context.Background())
	if res.Outcome != types.OutcomeFailed {
		t.Errorf("outcome: got %s, want failed", res.Outcome)
	}
}
