package export

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"c2cscout/internal/domain"
)

func samplePostings() []domain.JobPosting {
	return []domain.JobPosting{
		{
			Company: "Acme", Title: "ML Engineer", Location: "Remote - USA",
			URL: "https://example.com/1", PostedDate: "2026-08-28", Source: "Greenhouse",
			EmploymentType: "Contract", Description: "Corp to corp contract.",
		},
		{
			Company: "Globex", Title: "Data Engineer", Location: "Austin, TX",
			URL: "https://example.com/2", PostedDate: "2026-08-27", Source: "Dice",
			EmploymentType: "Contract", Description: strings.Repeat("long text ", 60),
		},
		{
			Company: "Initech", Title: "Python Developer", Location: "USA",
			URL: "https://example.com/3", PostedDate: "2026-08-27", Source: "Dice",
		},
	}
}

func TestWorkbookEmpty(t *testing.T) {
	if _, err := Workbook(nil); err != ErrNoPostings {
		t.Errorf("got %v, want ErrNoPostings", err)
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	postings := samplePostings()
	book, err := Workbook(postings)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(book))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(postings)+1 {
		t.Fatalf("rows: got %d, want %d", len(rows), len(postings)+1)
	}
	for i, h := range Headers {
		if rows[0][i] != h {
			t.Errorf("header %d: got %q, want %q", i, rows[0][i], h)
		}
	}

	// row order follows input order; spot-check positional cells
	if rows[1][0] != "Acme" || rows[1][5] != "Greenhouse" {
		t.Errorf("row 1: %v", rows[1])
	}
	if rows[3][1] != "Python Developer" {
		t.Errorf("row 3: %v", rows[3])
	}

	// long descriptions are previewed, not dumped wholesale
	preview := rows[2][7]
	if len(preview) > previewLen+3 {
		t.Errorf("preview too long: %d chars", len(preview))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("preview not marked truncated: %q", preview)
	}
}

func TestWorkbookSummary(t *testing.T) {
	book, err := Workbook(samplePostings())
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(book))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if rows[1][0] != "Total Jobs Found" || rows[1][1] != "3" {
		t.Errorf("totals row: %v", rows[1])
	}

	counts := map[string]string{}
	for _, row := range rows {
		if len(row) == 2 && strings.HasPrefix(row[0], "  - ") {
			counts[strings.TrimPrefix(row[0], "  - ")] = row[1]
		}
	}
	if counts["Greenhouse"] != "1" || counts["Dice"] != "2" {
		t.Errorf("per-source counts: %v", counts)
	}
}

func TestWorkbookColumnWidthCountsRunes(t *testing.T) {
	company := "Ürümqi Çözüm Ofisi" // 18 runes, more bytes
	book, err := Workbook([]domain.JobPosting{{
		Company: company, Title: "ML Engineer", Location: "USA",
		URL: "u", PostedDate: "d", Source: "Dice",
	}})
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(book))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetColWidth(resultsSheet, "A")
	if err != nil {
		t.Fatal(err)
	}
	want := float64(utf8.RuneCountInString(company) + 2)
	if got != want {
		t.Errorf("column width: got %v, want %v (rune count, not bytes)", got, want)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)
	if got := Filename("c2c_jobs_{timestamp}.xlsx", now); got != "c2c_jobs_20260829_143005.xlsx" {
		t.Errorf("got %q", got)
	}
	if got := Filename("static.xlsx", now); got != "static.xlsx" {
		t.Errorf("got %q", got)
	}
	if got := Filename("", now); got != "c2c_jobs_20260829_143005.xlsx" {
		t.Errorf("empty template: got %q", got)
	}
}
