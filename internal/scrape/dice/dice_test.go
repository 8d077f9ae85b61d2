package dice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"c2cscout/internal/classify"
	"c2cscout/internal/scrape/types"
)

const searchFixture = `{
  "data": [
    {
      "id": "j-100",
      "jobTitle": "Data Engineer (C2C)",
      "company": "Staffing Partners",
      "summary": "Corp to corp contract, 12 months.",
      "postedDate": "2026-08-28T09:00:00Z",
      "detailsPageUrl": "https://www.dice.com/job-detail/j-100",
      "employmentType": "CONTRACTS",
      "jobLocation": {"displayName": "Dallas, TX, USA"}
    },
    {
      "id": "j-101",
      "jobTitle": "ML Engineer",
      "company": "Acme",
      "summary": "Contract role.",
      "postedDate": "2026-08-28T09:00:00Z",
      "detailsPageUrl": "",
      "employmentType": "",
      "jobLocation": [{"displayName": "Remote, USA"}]
    },
    {
      "id": "j-102",
      "jobTitle": "",
      "company": "Nameless",
      "summary": "skipped, no title"
    }
  ]
}`

func TestFetchMapsAndDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			// deeper pages are empty; the query loop must stop cleanly
			w.Write([]byte(`{"data": []}`))
			return
		}
		if r.URL.Query().Get("countryCode2") != "US" {
			t.Errorf("missing countryCode2 param: %s", r.URL.RawQuery)
		}
		w.Write([]byte(searchFixture))
	}))
	defer srv.Close()

	s := New(Config{
		Queries: []string{"data engineer"},
		BaseURL: srv.URL,
	}, classify.New(classify.Keywords{}), nil)

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != types.OutcomeOK {
		t.Errorf("outcome: got %s", res.Outcome)
	}
	if len(res.Postings) != 2 {
		t.Fatalf("postings: got %d, want 2", len(res.Postings))
	}

	first := res.Postings[0]
	if first.Location != "Dallas, TX, USA" || first.EmploymentType != "CONTRACTS" {
		t.Errorf("unexpected posting: %+v", first)
	}

	// array-shaped location plus URL/employment defaults
	second := res.Postings[1]
	if second.Location != "Remote, USA" {
		t.Errorf("location: got %q", second.Location)
	}
	if second.URL != "https://www.dice.com" {
		t.Errorf("url default: got %q", second.URL)
	}
	if second.EmploymentType != "Contract" {
		t.Errorf("employment default: got %q", second.EmploymentType)
	}
}

func TestFetchFirstPageFailureFailsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := New(Config{
		Queries: []string{"ml engineer"},
		BaseURL: srv.URL,
	}, classify.New(classify.Keywords{}), nil)

	res, _ := s.Fetch(context.Background())
	if res.Outcome != types.OutcomeFailed {
		t.Errorf("outcome: got %s, want failed", res.Outcome)
	}
}

func TestJobLocationShapes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"displayName": "Austin, TX"}`, "Austin, TX"},
		{`[{"displayName": "Boston, MA"}]`, "Boston, MA"},
		{`[]`, "USA"},
		{`"weird"`, "USA"},
		{``, "USA"},
	}
	for _, tt := range tests {
		if got := jobLocation(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("jobLocation(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
