package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSearch(t *testing.T) {
	search := NewSearch(1024 * 1024)

	if search == nil {
		t.Fatal("NewSearch returned nil")
	}
	if search.validator == nil {
		t.Error("Expected validator to be initialized")
	}
}

func TestSearch_SearchDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "search_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	subDir := filepath.Join(tempDir, "sub")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	// Only the well-formed PDFs below the size limit should be reported
	testFiles := map[string][]byte{
		"physics_report.pdf":  make([]byte, 1024),
		"attendance_2024.pdf": make([]byte, 2048),
		"syllabus.txt":        []byte("not a report"),
		"empty.pdf":           {},
		"huge.pdf":            make([]byte, 2*1024*1024),
	}
	for name, content := range testFiles {
		if err := os.WriteFile(filepath.Join(tempDir, name), content, 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(subDir, "chem_notes.pdf"), make([]byte, 512), 0644); err != nil {
		t.Fatalf("Failed to create nested test file: %v", err)
	}

	search := NewSearch(1024 * 1024)

	tests := []struct {
		name          string
		directory     string
		query         string
		expectedCount int
		wantErr       bool
		errMsg        string
	}{
		{
			name:          "all valid reports",
			directory:     tempDir,
			expectedCount: 3,
		},
		{
			name:          "query matches one file",
			directory:     tempDir,
			query:         "physics",
			expectedCount: 1,
		},
		{
			name:          "query matches nested file",
			directory:     tempDir,
			query:         "chem",
			expectedCount: 1,
		},
		{
			name:          "query without match",
			directory:     tempDir,
			query:         "zzz",
			expectedCount: 0,
		},
		{
			name:      "empty directory",
			directory: "",
			wantErr:   true,
			errMsg:    "directory cannot be empty",
		},
		{
			name:      "non-existent directory",
			directory: filepath.Join(tempDir, "missing"),
			wantErr:   true,
			errMsg:    "directory does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := search.SearchDirectory(SearchDirectoryRequest{
				Directory: tt.directory,
				Query:     tt.query,
			})
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing %q, got: %v", tt.errMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.TotalCount != tt.expectedCount {
				t.Errorf("Expected %d files, got %d", tt.expectedCount, result.TotalCount)
			}
			if len(result.Files) != tt.expectedCount {
				t.Errorf("Expected %d entries, got %d", tt.expectedCount, len(result.Files))
			}
			if result.SearchQuery != tt.query {
				t.Errorf("Expected query %q to be echoed, got %q", tt.query, result.SearchQuery)
			}
			for _, file := range result.Files {
				if file.Size <= 0 {
					t.Errorf("Expected positive size for %s", file.Name)
				}
				if file.ModifiedTime == "" {
					t.Errorf("Expected modified time for %s", file.Name)
				}
			}
		})
	}
}

func TestSearch_FindReportsInDirectoryLimited(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "search_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	hiddenDir := filepath.Join(tempDir, ".archive")
	if err := os.Mkdir(hiddenDir, 0755); err != nil {
		t.Fatalf("Failed to create hidden directory: %v", err)
	}

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), make([]byte, 1024), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(hiddenDir, "old.pdf"), make([]byte, 1024), 0644); err != nil {
		t.Fatalf("Failed to create hidden test file: %v", err)
	}

	search := NewSearch(1024 * 1024)

	// Hidden directories are skipped by the limited walk
	files, err := search.FindReportsInDirectoryLimited(tempDir, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 files without limit, got %d", len(files))
	}

	files, err = search.FindReportsInDirectoryLimited(tempDir, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files with limit, got %d", len(files))
	}

	// The unlimited walk descends into hidden directories as well
	all, err := search.FindReportsInDirectory(tempDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Expected 4 files from full walk, got %d", len(all))
	}

	if _, err := search.FindReportsInDirectoryLimited("", 5); err == nil {
		t.Error("Expected error for empty directory")
	}
}

func TestSearch_CountReportsInDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "search_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	for _, name := range []string{"one.pdf", "two.pdf"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), make([]byte, 256), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tempDir, "readme.md"), []byte("# notes"), 0644); err != nil {
		t.Fatalf("Failed to create non-report file: %v", err)
	}

	search := NewSearch(1024 * 1024)

	count, err := search.CountReportsInDirectory(tempDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 reports, got %d", count)
	}

	if _, err := search.CountReportsInDirectory(filepath.Join(tempDir, "missing")); err == nil {
		t.Error("Expected error for non-existent directory")
	}
}

func TestSearch_SearchByPattern(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "search_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	for _, name := range []string{"report_jan.pdf", "report_feb.pdf", "summary.pdf"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), make([]byte, 512), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}

	search := NewSearch(1024 * 1024)

	tests := []struct {
		name          string
		pattern       string
		expectedCount int
	}{
		{
			name:          "prefix pattern",
			pattern:       "report_*.pdf",
			expectedCount: 2,
		},
		{
			name:          "match all PDFs",
			pattern:       "*.pdf",
			expectedCount: 3,
		},
		{
			name:          "no matches",
			pattern:       "exam_*.pdf",
			expectedCount: 0,
		},
		{
			name:          "empty pattern falls back to full search",
			pattern:       "",
			expectedCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := search.SearchByPattern(tempDir, tt.pattern)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.TotalCount != tt.expectedCount {
				t.Errorf("Expected %d files, got %d", tt.expectedCount, result.TotalCount)
			}
		})
	}
}

func TestSearch_isReportFile(t *testing.T) {
	search := NewSearch(1024 * 1024)

	tests := []struct {
		filename string
		expected bool
	}{
		{"document.pdf", true},
		{"DOCUMENT.PDF", true},
		{"report.Pdf", true},
		{".pdf", true},
		{"doc.txt", false},
		{"document.pdf.txt", false},
		{"pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := search.isReportFile(tt.filename); got != tt.expected {
				t.Errorf("isReportFile(%q) = %v, expected %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestSearch_matchesQuery(t *testing.T) {
	search := NewSearch(1024 * 1024)

	tests := []struct {
		name     string
		filename string
		query    string
		expected bool
	}{
		// Direct substring matches
		{"substring match", "attendance_report.pdf", "attendance", true},
		{"substring in middle", "attendance_report.pdf", "report", true},
		{"case-insensitive filename", "Attendance_Report.pdf", "attendance", true},
		{"extension as substring", "report.pdf", "pdf", true},

		// Word-based matching across separators
		{"words across separators", "physics_sem2_2024.pdf", "physics 2024", true},
		{"hyphenated words", "maths-tutorial-records.pdf", "tutorial records", true},
		{"partial word", "attendance_report.pdf", "attend", true},

		// Non-matches
		{"unrelated query", "physics_sem2_2024.pdf", "chemistry", false},
		{"one word missing", "physics_sem2_2024.pdf", "physics chemistry", false},
		{"no match at all", "physics.pdf", "zzz", false},

		// Empty query matches everything
		{"empty query", "anything.pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.matchesQuery(tt.filename, tt.query); got != tt.expected {
				t.Errorf("matchesQuery(%q, %q) = %v, expected %v", tt.filename, tt.query, got, tt.expected)
			}
		})
	}
}

func TestSearch_splitIntoWords(t *testing.T) {
	search := NewSearch(1024 * 1024)

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "mixed separators",
			input:    "attendance_report-2024.pdf",
			expected: []string{"attendance", "report", "2024", "pdf"},
		},
		{
			name:     "parentheses and spaces",
			input:    "Physics (Sem II).pdf",
			expected: []string{"physics", "sem", "ii", "pdf"},
		},
		{
			name:     "single word",
			input:    "one",
			expected: []string{"one"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := search.splitIntoWords(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d words, got %d: %v", len(tt.expected), len(got), got)
			}
			for i, word := range tt.expected {
				if got[i] != word {
					t.Errorf("Expected word %d to be %q, got %q", i, word, got[i])
				}
			}
		})
	}
}

func BenchmarkSearch_SearchDirectory(b *testing.B) {
	tempDir, err := os.MkdirTemp("", "search_bench")
	if err != nil {
		b.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	for i := 0; i < 100; i++ {
		name := filepath.Join(tempDir, fmt.Sprintf("report_%03d.pdf", i))
		if err := os.WriteFile(name, make([]byte, 1024), 0644); err != nil {
			b.Fatalf("Failed to create bench file: %v", err)
		}
	}

	search := NewSearch(1024 * 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = search.SearchDirectory(SearchDirectoryRequest{Directory: tempDir})
	}
}

func BenchmarkSearch_matchesQuery(b *testing.B) {
	search := NewSearch(1024 * 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		search.matchesQuery("physics_sem2_attendance_2024.pdf", "physics 2024")
	}
}
