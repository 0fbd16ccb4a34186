package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a3tai/mcp-attendance/internal/descriptions"
)

// DirectoryCache provides TTL-based caching for directory contents
type DirectoryCache struct {
	entries map[string]*DirectoryCacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

// DirectoryCacheEntry represents a cached directory scan result
type DirectoryCacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
	scanning   bool
}

// LazyDirectoryScanner performs efficient directory scanning with limits
type LazyDirectoryScanner struct {
	maxDepth    int
	fileLimit   int
	timeLimit   time.Duration
	skipHidden  bool
	skipSymlink bool
}

// ServerInfo provides optimized server info operations
type ServerInfo struct {
	cache   *DirectoryCache
	scanner *LazyDirectoryScanner
	service *Service
}

// ScanResult represents the result of a directory scan
type ScanResult struct {
	Files        []FileInfo
	FromCache    bool
	CacheAge     time.Duration
	ScanTime     time.Duration
	FilesScanned int
	Truncated    bool
}

// NewDirectoryCache creates a new directory cache with the specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]*DirectoryCacheEntry),
		ttl:     ttl,
	}
}

// Get retrieves cached directory contents if still valid
func (c *DirectoryCache) Get(path string) *DirectoryCacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists {
		return nil
	}

	if time.Since(entry.lastUpdate) > c.ttl {
		return nil
	}

	return entry
}

// Set stores directory contents in the cache
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = &DirectoryCacheEntry{
		files:      files,
		lastUpdate: time.Now(),
		scanning:   false,
	}
}

// SetScanning marks a directory as currently being scanned
func (c *DirectoryCache) SetScanning(path string, scanning bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[path]
	if !exists {
		entry = &DirectoryCacheEntry{
			files:      nil,
			lastUpdate: time.Time{},
			scanning:   scanning,
		}
		c.entries[path] = entry
	} else {
		entry.scanning = scanning
	}
}

// IsScanning checks if a directory is currently being scanned
func (c *DirectoryCache) IsScanning(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	return exists && entry.scanning
}

// Clear drops all cached directory listings
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*DirectoryCacheEntry)
}

// NewLazyDirectoryScanner creates a new lazy directory scanner
func NewLazyDirectoryScanner(maxDepth, fileLimit int, timeLimit time.Duration) *LazyDirectoryScanner {
	return &LazyDirectoryScanner{
		maxDepth:    maxDepth,
		fileLimit:   fileLimit,
		timeLimit:   timeLimit,
		skipHidden:  true,
		skipSymlink: true,
	}
}

// ScanDirectory performs lazy directory scanning with context cancellation
func (s *LazyDirectoryScanner) ScanDirectory(ctx context.Context, root string) (*ScanResult, error) {
	startTime := time.Now()
	visited := make(map[string]bool)
	var files []FileInfo
	filesScanned := 0
	truncated := false

	err := s.scanRecursive(ctx, root, 0, visited, &files, &filesScanned, &truncated, startTime)

	result := &ScanResult{
		Files:        files,
		FromCache:    false,
		ScanTime:     time.Since(startTime),
		FilesScanned: filesScanned,
		Truncated:    truncated,
	}

	return result, err
}

// scanRecursive performs the actual recursive directory traversal
func (s *LazyDirectoryScanner) scanRecursive(ctx context.Context, path string, depth int,
	visited map[string]bool, files *[]FileInfo, filesScanned *int, truncated *bool, startTime time.Time,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if s.maxDepth > 0 && depth >= s.maxDepth {
		return nil
	}

	if s.fileLimit > 0 && len(*files) >= s.fileLimit {
		*truncated = true
		return nil
	}

	if s.timeLimit > 0 && time.Since(startTime) > s.timeLimit {
		*truncated = true
		return nil
	}

	// Resolve symlinks and check for cycles
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}

	if visited[realPath] {
		return nil
	}
	visited[realPath] = true

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil // Skip directories we can't read
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		entryPath := filepath.Join(path, entry.Name())
		*filesScanned++

		if s.skipHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		if s.skipSymlink && entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		if entry.IsDir() {
			if err := s.scanRecursive(ctx, entryPath, depth+1, visited, files, filesScanned, truncated, startTime); err != nil {
				return err
			}
		} else {
			if s.isReportFile(entry.Name()) {
				info, err := entry.Info()
				if err != nil {
					continue
				}

				fileInfo := FileInfo{
					Name:         entry.Name(),
					Path:         entryPath,
					Size:         info.Size(),
					ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
				}

				*files = append(*files, fileInfo)

				if s.fileLimit > 0 && len(*files) >= s.fileLimit {
					*truncated = true
					return nil
				}
			}
		}
	}

	return nil
}

// isReportFile checks if a file is a report PDF based on extension
func (s *LazyDirectoryScanner) isReportFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".pdf"
}

// NewServerInfo creates a new optimized server info handler
func NewServerInfo(service *Service) *ServerInfo {
	return &ServerInfo{
		cache:   NewDirectoryCache(5 * time.Minute),             // 5-minute cache TTL
		scanner: NewLazyDirectoryScanner(5, 100, 3*time.Second), // max 5 levels, 100 files, 3 second limit
		service: service,
	}
}

// GetServerInfo performs optimized server info retrieval
func (p *ServerInfo) GetServerInfo(ctx context.Context, serverName, version, defaultDirectory string) (*ServerInfoResult, error) {
	// Fall back to the configured directory when the requested one is unusable
	validatedDir := defaultDirectory
	if err := p.service.pathValidator.ValidateDirectory(defaultDirectory); err != nil {
		validatedDir = p.service.pathValidator.GetConfiguredDirectory()
	}

	var scanResult *ScanResult
	var err error

	if cached := p.cache.Get(validatedDir); cached != nil {
		scanResult = &ScanResult{
			Files:     cached.files,
			FromCache: true,
			CacheAge:  time.Since(cached.lastUpdate),
		}
	} else {
		// Return empty results if a scan is already in progress to avoid blocking
		if p.cache.IsScanning(validatedDir) {
			scanResult = &ScanResult{
				Files:     []FileInfo{},
				FromCache: false,
			}
		} else {
			p.cache.SetScanning(validatedDir, true)
			defer p.cache.SetScanning(validatedDir, false)

			scanCtx := ctx
			if ctx == context.Background() {
				var cancel context.CancelFunc
				scanCtx, cancel = context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
			}

			scanResult, err = p.scanner.ScanDirectory(scanCtx, validatedDir)
			if err != nil && ctx.Err() == nil {
				// Only surface an empty listing if the failure was not a cancellation
				scanResult = &ScanResult{Files: []FileInfo{}}
			}

			if scanResult != nil {
				p.cache.Set(validatedDir, scanResult.Files)
			}
		}
	}

	result := &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  validatedDir,
		MaxFileSize:       p.service.maxFileSize,
		TargetPercentage:  p.service.targetPercentage,
		UpcomingClasses:   p.service.upcomingClasses,
		AvailableTools:    p.getAvailableTools(),
		DirectoryContents: scanResult.Files,
		CacheStats:        p.service.CacheStats(),
		UsageGuidance:     p.getUsageGuidance(),
	}

	return result, nil
}

// ClearDirectoryCache drops the cached directory listings
func (p *ServerInfo) ClearDirectoryCache() {
	p.cache.Clear()
}

// getAvailableTools returns the list of available tools
func (p *ServerInfo) getAvailableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "attendance_extract_file",
			Description: descriptions.GetToolDescription("attendance_extract_file"),
			Usage: "Use this tool to extract the structured attendance record from a report PDF, " +
				"with per-subject assessment against the attendance target.",
			Parameters: "path (required): Full path to the attendance report PDF (supports both absolute and relative paths)",
		},
		{
			Name:        "attendance_extract_text",
			Description: descriptions.GetToolDescription("attendance_extract_text"),
			Usage:       "Use this tool when you already have the report text and want the structured record without reading a file.",
			Parameters:  "text (required): Raw attendance report text",
		},
		{
			Name:        "attendance_classes_needed",
			Description: descriptions.GetToolDescription("attendance_classes_needed"),
			Usage:       "Use this tool to compute how many consecutive classes must be attended to reach the target percentage.",
			Parameters: "present (required): Classes attended so far, total (required): Classes held so far, " +
				"target (optional): Target percentage (uses the configured default if omitted)",
		},
		{
			Name:        "attendance_classes_can_miss",
			Description: descriptions.GetToolDescription("attendance_classes_can_miss"),
			Usage:       "Use this tool to compute how many of the upcoming classes can be missed while staying at or above the target.",
			Parameters: "present (required): Classes attended so far, total (required): Classes held so far, " +
				"target (optional): Target percentage, upcoming (optional): Number of upcoming classes " +
				"(uses the configured default if omitted)",
		},
		{
			Name:        "attendance_trend",
			Description: descriptions.GetToolDescription("attendance_trend"),
			Usage:       "Use this tool to project the attendance percentage after each of the next classes, attend-all versus miss-all.",
			Parameters: "present (required): Classes attended so far, total (required): Classes held so far, " +
				"horizon (optional): Number of classes to project (uses the configured default if omitted)",
		},
		{
			Name:        "attendance_validate_file",
			Description: descriptions.GetToolDescription("attendance_validate_file"),
			Usage:       "Use this tool to check if a file is a valid readable PDF before attempting extraction.",
			Parameters:  "path (required): Full path to the attendance report PDF (supports both absolute and relative paths)",
		},
		{
			Name:        "attendance_search_directory",
			Description: descriptions.GetToolDescription("attendance_search_directory"),
			Usage: "Use this tool to find attendance report PDFs in the default directory or any specified " +
				"directory. Supports fuzzy search by filename.",
			Parameters: "directory (optional): Directory path to search (uses the configured directory if empty, supports relative paths), " +
				"query (optional): Search query for fuzzy matching",
		},
		{
			Name:        "attendance_stats_directory",
			Description: descriptions.GetToolDescription("attendance_stats_directory"),
			Usage: "Use this tool to get an overview of all report PDFs in a directory including " +
				"total count, sizes, and file information.",
			Parameters: "directory (optional): Directory path to analyze (uses the configured directory if empty, supports relative paths)",
		},
		{
			Name:        "attendance_cache_clear",
			Description: descriptions.GetToolDescription("attendance_cache_clear"),
			Usage:       "Use this tool to drop all cached extraction results, forcing fresh extractions.",
			Parameters:  "No parameters required",
		},
		{
			Name:        "attendance_server_info",
			Description: descriptions.GetToolDescription("attendance_server_info"),
			Usage:       "Use this tool to get comprehensive server information and available capabilities.",
			Parameters:  "No parameters required",
		},
	}
}

// getUsageGuidance returns comprehensive usage guidance
func (p *ServerInfo) getUsageGuidance() string {
	maxFileSizeMB := p.service.maxFileSize / (1024 * 1024)

	return fmt.Sprintf(`Attendance MCP Server Usage Guide:

1. START WITH DISCOVERY:
   - Use 'attendance_search_directory' to find available report PDFs
   - Use 'attendance_stats_directory' to get an overview of the directory
   - Use 'attendance_server_info' to get server capabilities and current directory contents

2. VALIDATE FILES:
   - Use 'attendance_validate_file' to check if a file is readable before processing

3. EXTRACT RECORDS:
   - Use 'attendance_extract_file' to get the structured record from a report PDF
   - Use 'attendance_extract_text' when you already have the report text
   - Every percentage in the record is recomputed from the raw present/total counts
   - Unusable input yields an empty record with student name "Unknown", never an extraction error

4. PROJECT AND PLAN:
   - Use 'attendance_classes_needed' when attendance is below target to get the recovery count
   - Use 'attendance_classes_can_miss' when attendance is above target to get the safe-to-miss budget
   - Use 'attendance_trend' to see the percentage trajectory over the coming classes
   - Omit target/upcoming/horizon to use the server's configured defaults (target %.0f%%, %d upcoming classes)

5. MAINTENANCE:
   - Use 'attendance_cache_clear' after changing extraction rules or editing report files in place

PERFORMANCE OPTIMIZATIONS:
- Extraction results are cached by text content, repeated extractions are served from cache
- Server info directory listings are cached for 5 minutes to improve response times
- Directory scanning is limited to 100 files and 3 seconds to prevent timeouts

IMPORTANT NOTES:
- All file paths are confined to the configured reports directory
- The server can handle files up to %dMB
- Encrypted PDFs cannot be read, export an unprotected copy instead
- Large directories may have truncated results, use attendance_search_directory for comprehensive searches`,
		p.service.targetPercentage, p.service.upcomingClasses, maxFileSizeMB)
}
