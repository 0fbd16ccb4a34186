package report

import (
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// sampleReportLines mirrors the layout of a portal-generated attendance
// report: identity header, table header, subject rows, totals row and a
// trailing note.
var sampleReportLines = []string{
	"Self Attendance Report : PAWAN NARAYAN SHETTY FE - AIML -C 2024-2025(SEMESTER- II)",
	"SrNo Subject Subject Type Present Total Period Percentage (%)",
	"1 Physics TH 9 24 37.50",
	"2 Mathematics - II TH 14 23 60.87",
	"Total 76 127 59.84",
	"Note: This report is generated automatically.",
}

// writeReportPDF renders the given lines into a single-page PDF under dir
// and returns the file path.
func writeReportPDF(tb testing.TB, dir, name string, lines []string) string {
	tb.Helper()
	return writeMultiPagePDF(tb, dir, name, [][]string{lines})
}

// writeMultiPagePDF renders one page per line group.
func writeMultiPagePDF(tb testing.TB, dir, name string, pages [][]string) string {
	tb.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Courier", "", 10)
	for _, lines := range pages {
		doc.AddPage()
		for _, line := range lines {
			doc.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	path := filepath.Join(dir, name)
	if err := doc.OutputFileAndClose(path); err != nil {
		tb.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}
