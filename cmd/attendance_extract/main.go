package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-attendance/internal/attendance"
	"github.com/a3tai/mcp-attendance/internal/report"
)

// maxFileSize caps how large a report file this tool will read.
const maxFileSize = 50 * 1024 * 1024

var (
	outputFormat  = flag.String("format", "text", "Output format: text, json")
	targetPercent = flag.Float64("target", attendance.DefaultTargetPercentage, "Attendance target percentage for projections")
	upcoming      = flag.Int("upcoming", attendance.DefaultUpcomingClasses, "Number of upcoming classes for the miss projection")
	rulesFile     = flag.String("rules", "", "Path to a custom extraction rule file (YAML)")
	verbose       = flag.Bool("verbose", false, "Enable verbose output")
	help          = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: report file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	if *targetPercent <= 0 || *targetPercent > 100 {
		fmt.Fprintf(os.Stderr, "Error: target must be within (0, 100], got %v\n", *targetPercent)
		os.Exit(1)
	}
	if *upcoming < 0 {
		fmt.Fprintf(os.Stderr, "Error: upcoming cannot be negative, got %d\n", *upcoming)
		os.Exit(1)
	}

	reportPath := flag.Arg(0)
	if _, err := os.Stat(reportPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", reportPath)
		os.Exit(1)
	}

	// Extract the attendance record and project it against the target
	result, err := extractReport(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting attendance: %v\n", err)
		os.Exit(1)
	}

	// Output results
	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Attendance Extract - Pull attendance records out of college report PDFs")
	fmt.Println()
	fmt.Println("This tool reads a self attendance report, recovers the per-subject table")
	fmt.Println("and overall standing, and projects the numbers against a target percentage.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -target        Target percentage for projections (default 75)")
	fmt.Println("  -upcoming      Upcoming classes considered by the miss projection (default 10)")
	fmt.Println("  -rules         Custom extraction rule file (YAML)")
	fmt.Println("  -verbose       Enable verbose output")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  attendance_extract report.pdf")
	fmt.Println("  attendance_extract -target 80 -upcoming 12 report.pdf")
	fmt.Println("  attendance_extract -format json reports/semester2.pdf")
	fmt.Println("  attendance_extract -rules portal.yaml report.pdf")
	fmt.Println()
	fmt.Println("RECOGNIZED LAYOUTS:")
	fmt.Println("  • Self Attendance Report headers naming the student")
	fmt.Println("  • SrNo / Subject / Type / Present / Total tables")
	fmt.Println("  • TH, PR, TU and ESH session type codes")
	fmt.Println("  • Total and Overall aggregate lines")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  attendance_extract [OPTIONS] <report_file>")
}

// ReportExtractionResult represents the complete result of an extraction run
type ReportExtractionResult struct {
	FilePath    string                      `json:"file_path"`
	Success     bool                        `json:"success"`
	Pages       int                         `json:"pages"`
	ContentType string                      `json:"content_type,omitempty"`
	Record      attendance.Record           `json:"record"`
	Assessment  attendance.RecordAssessment `json:"assessment"`
	Projection  *ProjectionInfo             `json:"projection,omitempty"`
	Error       string                      `json:"error,omitempty"`
}

// ProjectionInfo carries the forward projections for the overall standing
type ProjectionInfo struct {
	Target        float64 `json:"target"`
	Upcoming      int     `json:"upcoming"`
	ClassesNeeded string  `json:"classes_needed"`
	CanMiss       int     `json:"can_miss"`
}

func extractReport(reportPath string) (*ReportExtractionResult, error) {
	absPath, err := filepath.Abs(reportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	result := &ReportExtractionResult{
		FilePath: absPath,
		Success:  false,
	}

	if *verbose {
		fmt.Printf("🔍 Analyzing report: %s\n", absPath)
		fmt.Println()
	}

	reader := report.NewReader(maxFileSize)
	read, err := reader.ReadFile(report.ReadFileRequest{Path: absPath})
	if err != nil {
		result.Error = err.Error()
		return result, nil // Don't fail, return error in result
	}

	result.Pages = read.Pages
	result.ContentType = read.ContentType

	extractor := attendance.NewExtractor()
	if *rulesFile != "" {
		rules, err := attendance.LoadRuleSet(*rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule set: %w", err)
		}
		extractor = attendance.NewExtractorWithRules(rules)
	}

	record := extractor.Extract(read.Content)
	result.Record = record
	result.Assessment = attendance.Assess(record)
	result.Success = true

	if !record.IsEmpty() {
		needed := attendance.ClassesNeeded(record.Overall.Present, record.Overall.Total, *targetPercent)
		result.Projection = &ProjectionInfo{
			Target:        *targetPercent,
			Upcoming:      *upcoming,
			ClassesNeeded: needed.String(),
			CanMiss:       attendance.ClassesCanMiss(record.Overall.Present, record.Overall.Total, *targetPercent, *upcoming),
		}
	}

	if *verbose {
		fmt.Printf("✅ Extraction completed\n")
		fmt.Printf("📊 Found %d subject rows\n", len(record.Subjects))
		fmt.Println()
	}

	return result, nil
}

func outputResults(result *ReportExtractionResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *ReportExtractionResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *ReportExtractionResult) error {
	if !result.Success {
		fmt.Printf("❌ Attendance extraction failed: %s\n", result.Error)
		return nil
	}

	if result.Record.IsEmpty() {
		fmt.Println("⚠️  No attendance table detected in the report")
		fmt.Println()
		fmt.Println("SUGGESTIONS:")
		switch result.ContentType {
		case "scanned_images":
			fmt.Println("• The report appears to be scanned images; run OCR tooling first")
		case "no_content":
			fmt.Println("• No extractable content was found in this file")
		default:
			fmt.Println("• The text did not match any known report layout")
			fmt.Println("• Provide portal-specific patterns with -rules")
		}
		return nil
	}

	fmt.Printf("✅ Extracted attendance for %s\n", result.Record.StudentName)
	fmt.Printf("   Pages: %d\n", result.Pages)
	fmt.Println()

	for i, row := range result.Record.Subjects {
		fmt.Printf("[%d] %s\n", i+1, row.Subject)
		fmt.Printf("    Type: %s\n", row.Type.DisplayName())
		fmt.Printf("    Attendance: %d/%d (%.2f%%)\n", row.Present, row.Total, row.Percentage)
		if i < len(result.Assessment.Subjects) {
			fmt.Printf("    Standing: %s\n", result.Assessment.Subjects[i].Status.DisplayName())
		}
		fmt.Println()
	}

	fmt.Printf("Overall: %d/%d (%.2f%%) - %s\n",
		result.Record.Overall.Present, result.Record.Overall.Total,
		result.Record.Overall.Percentage, result.Assessment.OverallStatus.DisplayName())

	if result.Projection != nil {
		fmt.Println()
		fmt.Printf("📈 PROJECTION (target %.1f%%)\n", result.Projection.Target)
		if result.Projection.ClassesNeeded == "unreachable" {
			fmt.Println("   Classes needed: unreachable, a missed class makes a perfect target impossible")
		} else {
			fmt.Printf("   Classes needed (attending every one): %s\n", result.Projection.ClassesNeeded)
		}
		fmt.Printf("   Can miss %d of the next %d classes\n", result.Projection.CanMiss, result.Projection.Upcoming)
	}

	return nil
}
