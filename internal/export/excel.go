package export

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"c2cscout/internal/domain"
	"c2cscout/internal/textutil"
)

// ErrNoPostings means there was nothing to export. Callers must treat this
// as a distinct "nothing to do" outcome, not a failure — an empty run
// produces no file at all rather than a zero-row workbook.
var ErrNoPostings = errors.New("no postings to export")

const (
	resultsSheet = "C2C AI ML Jobs"
	summarySheet = "Summary"

	previewLen  = 200
	maxColWidth = 50
)

// Headers, in the declared column order of the results sheet.
var Headers = []string{
	"Company", "Job Title", "Location", "Job URL",
	"Posted Date", "Source", "Employment Type", "Description Preview",
}

// Workbook serializes the postings into an xlsx workbook: a results sheet
// with a styled header row and one row per posting in input order, plus a
// summary sheet with run totals.
func Workbook(postings []domain.JobPosting) ([]byte, error) {
	if len(postings) == 0 {
		return nil, ErrNoPostings
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	widths := make([]int, len(Headers))
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(resultsSheet, cell, h); err != nil {
			return nil, fmt.Errorf("export: header: %w", err)
		}
		widths[i] = utf8.RuneCountInString(h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	_ = f.SetCellStyle(resultsSheet, "A1", endHeader, headerStyle)

	for r, p := range postings {
		row := []string{
			p.Company,
			p.Title,
			p.Location,
			p.URL,
			p.PostedDate,
			p.Source,
			p.EmploymentType,
			textutil.Truncate(p.Description, previewLen),
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(resultsSheet, cell, v); err != nil {
				return nil, fmt.Errorf("export: row %d: %w", r+2, err)
			}
			if n := utf8.RuneCountInString(v); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		adjusted := w + 2
		if adjusted > maxColWidth {
			adjusted = maxColWidth
		}
		_ = f.SetColWidth(resultsSheet, col, col, float64(adjusted))
	}

	if err := writeSummary(f, postings, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	log.Printf("[export] postings=%d bytes=%d", len(postings), buf.Len())
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, postings []domain.JobPosting, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("export: summary sheet: %w", err)
	}

	bySource := map[string]int{}
	var order []string
	for _, p := range postings {
		if _, seen := bySource[p.Source]; !seen {
			order = append(order, p.Source)
		}
		bySource[p.Source]++
	}

	rows := [][]string{
		{"Metric", "Value"},
		{"Total Jobs Found", fmt.Sprintf("%d", len(postings))},
		{"Jobs by Source", ""},
	}
	for _, src := range order {
		rows = append(rows, []string{"  - " + src, fmt.Sprintf("%d", bySource[src])})
	}
	rows = append(rows, []string{"Scraping Date", time.Now().Format("2006-01-02 15:04:05")})

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellStr(summarySheet, cell, v); err != nil {
				return fmt.Errorf("export: summary row %d: %w", r+1, err)
			}
		}
	}
	_ = f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
	return nil
}

// Filename renders the configured template, replacing {timestamp} with
// now in compact form.
func Filename(template string, now time.Time) string {
	if template == "" {
		template = "c2c_jobs_{timestamp}.xlsx"
	}
	return strings.ReplaceAll(template, "{timestamp}", now.Format("20060102_150405"))
}
