package report

import (
	"github.com/a3tai/mcp-attendance/internal/attendance"
)

// FileInfo represents information about a report file on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ReadFileRequest represents a request to read the raw text of a report file
type ReadFileRequest struct {
	Path string `json:"path"`
}

// ExtractFileRequest represents a request to extract attendance from a report file
type ExtractFileRequest struct {
	Path string `json:"path"`
}

// ExtractTextRequest represents a request to extract attendance from raw text
type ExtractTextRequest struct {
	Text string `json:"text"`
}

// ValidateFileRequest represents a request to validate a report file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// StatsFileRequest represents a request for metadata about a report file
type StatsFileRequest struct {
	Path string `json:"path"`
}

// SearchDirectoryRequest represents a request to search for report files in a directory
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// StatsDirectoryRequest represents a request for directory statistics
type StatsDirectoryRequest struct {
	Directory string `json:"directory"`
}

// ClassesNeededRequest represents a request to project classes needed to reach a target
type ClassesNeededRequest struct {
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Target  float64 `json:"target"`
}

// ClassesCanMissRequest represents a request to project skippable upcoming classes
type ClassesCanMissRequest struct {
	Present  int     `json:"present"`
	Total    int     `json:"total"`
	Target   float64 `json:"target"`
	Upcoming int     `json:"upcoming"`
}

// TrendRequest represents a request for an attendance trend series
type TrendRequest struct {
	Present int `json:"present"`
	Total   int `json:"total"`
	Horizon int `json:"horizon"`
}

// CacheClearRequest represents a request to clear the extraction cache
type CacheClearRequest struct {
	// No parameters needed for cache clearing
}

// ServerInfoRequest represents a request to get server information and capabilities
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// ReadFileResult represents the result of reading a report file
type ReadFileResult struct {
	Content     string `json:"content"`
	Path        string `json:"path"`
	Pages       int    `json:"pages"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"` // "text", "scanned_images", "mixed", "no_content"
	HasImages   bool   `json:"has_images"`
	ImageCount  int    `json:"image_count"`
}

// ExtractFileResult represents the result of extracting attendance from a file
type ExtractFileResult struct {
	Path        string                      `json:"path"`
	Record      attendance.Record           `json:"record"`
	Assessment  attendance.RecordAssessment `json:"assessment"`
	Pages       int                         `json:"pages"`
	ContentType string                      `json:"content_type"`
	Cached      bool                        `json:"cached"`
}

// ExtractTextResult represents the result of extracting attendance from raw text
type ExtractTextResult struct {
	Record     attendance.Record           `json:"record"`
	Assessment attendance.RecordAssessment `json:"assessment"`
	Cached     bool                        `json:"cached"`
}

// ValidateFileResult represents the result of a report file validation
type ValidateFileResult struct {
	Valid     bool   `json:"valid"`
	Path      string `json:"path"`
	Message   string `json:"message,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	Version   string `json:"version,omitempty"`
	Encrypted bool   `json:"encrypted"`
}

// StatsFileResult represents metadata about a single report file
type StatsFileResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Producer     string `json:"producer,omitempty"`
}

// SearchDirectoryResult represents the result of a report file search
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// StatsDirectoryResult represents the result of directory statistics
type StatsDirectoryResult struct {
	Directory        string `json:"directory"`
	TotalFiles       int    `json:"total_files"`
	TotalSize        int64  `json:"total_size"`
	LargestFileSize  int64  `json:"largest_file_size"`
	LargestFileName  string `json:"largest_file_name"`
	SmallestFileSize int64  `json:"smallest_file_size"`
	SmallestFileName string `json:"smallest_file_name"`
	AverageFileSize  int64  `json:"average_file_size"`
}

// ClassesNeededResult represents the projection of classes needed to reach a target
type ClassesNeededResult struct {
	Present     int     `json:"present"`
	Total       int     `json:"total"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
	Unreachable bool    `json:"unreachable"`
	Classes     int     `json:"classes"`
}

// ClassesCanMissResult represents the projection of skippable upcoming classes
type ClassesCanMissResult struct {
	Present  int     `json:"present"`
	Total    int     `json:"total"`
	Current  float64 `json:"current"`
	Target   float64 `json:"target"`
	Upcoming int     `json:"upcoming"`
	CanMiss  int     `json:"can_miss"`
}

// TrendResult represents an attendance trend series
type TrendResult struct {
	Present int                     `json:"present"`
	Total   int                     `json:"total"`
	Horizon int                     `json:"horizon"`
	Points  []attendance.TrendPoint `json:"points"`
}

// CacheClearResult represents the result of clearing the extraction cache
type CacheClearResult struct {
	Cleared int `json:"cleared"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	TargetPercentage  float64    `json:"target_percentage"`
	UpcomingClasses   int        `json:"upcoming_classes"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	CacheStats        CacheStats `json:"cache_stats"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
