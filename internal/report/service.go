package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-attendance/internal/attendance"
)

// Service orchestrates report plumbing and attendance extraction. File
// operations are confined to the configured reports directory; extraction
// results are memoized in a content-addressed cache.
type Service struct {
	maxFileSize      int64
	targetPercentage float64
	upcomingClasses  int

	reader        *Reader
	validator     *Validator
	stats         *Stats
	search        *Search
	extractor     *attendance.Extractor
	cache         *ExtractionCache
	pathValidator *PathValidator
	serverInfo    *ServerInfo
}

// ServiceConfig carries the construction parameters for a Service
type ServiceConfig struct {
	MaxFileSize      int64
	ReportsDirectory string
	TargetPercentage float64
	UpcomingClasses  int
	CacheEntries     int
	RulesFile        string
}

// NewService creates a report service with all components wired up
func NewService(cfg ServiceConfig) (*Service, error) {
	pathValidator, err := NewPathValidator(cfg.ReportsDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	rules := attendance.DefaultRuleSet()
	if cfg.RulesFile != "" {
		rules, err = attendance.LoadRuleSet(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule set: %w", err)
		}
		log.Info().Str("file", cfg.RulesFile).Msg("loaded extraction rule overrides")
	}

	target := cfg.TargetPercentage
	if target <= 0 || target > 100 {
		target = attendance.DefaultTargetPercentage
	}
	upcoming := cfg.UpcomingClasses
	if upcoming <= 0 {
		upcoming = attendance.DefaultUpcomingClasses
	}

	svc := &Service{
		maxFileSize:      cfg.MaxFileSize,
		targetPercentage: target,
		upcomingClasses:  upcoming,
		reader:           NewReader(cfg.MaxFileSize),
		validator:        NewValidator(cfg.MaxFileSize),
		stats:            NewStats(cfg.MaxFileSize),
		search:           NewSearch(cfg.MaxFileSize),
		extractor:        attendance.NewExtractorWithRules(rules),
		cache:            NewExtractionCache(cfg.CacheEntries),
		pathValidator:    pathValidator,
	}
	svc.serverInfo = NewServerInfo(svc)

	return svc, nil
}

// ReadFile returns the raw text content of a report file
func (s *Service) ReadFile(req ReadFileRequest) (*ReadFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.reader.ReadFile(req)
}

// ExtractFile reads a report file and extracts its attendance record
func (s *Service) ExtractFile(req ExtractFileRequest) (*ExtractFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	readResult, err := s.reader.ReadFile(ReadFileRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}

	rec, cached := s.extractCached(readResult.Content)

	log.Debug().
		Str("path", req.Path).
		Str("student", rec.StudentName).
		Int("subjects", len(rec.Subjects)).
		Bool("cached", cached).
		Msg("extracted attendance record")

	return &ExtractFileResult{
		Path:        req.Path,
		Record:      rec,
		Assessment:  attendance.Assess(rec),
		Pages:       readResult.Pages,
		ContentType: readResult.ContentType,
		Cached:      cached,
	}, nil
}

// ExtractText extracts an attendance record from raw report text. The
// extraction never fails; unusable text yields the empty record.
func (s *Service) ExtractText(req ExtractTextRequest) (*ExtractTextResult, error) {
	rec, cached := s.extractCached(req.Text)

	log.Debug().
		Str("student", rec.StudentName).
		Int("subjects", len(rec.Subjects)).
		Bool("cached", cached).
		Msg("extracted attendance record from text")

	return &ExtractTextResult{
		Record:     rec,
		Assessment: attendance.Assess(rec),
		Cached:     cached,
	}, nil
}

// extractCached runs the extractor behind the content-addressed cache
func (s *Service) extractCached(text string) (attendance.Record, bool) {
	key := KeyFrom(text)
	if rec, ok := s.cache.Get(key); ok {
		return rec, true
	}

	rec := s.extractor.Extract(text)
	s.cache.Put(key, rec)
	return rec, false
}

// ValidateFile performs validation on a report file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// StatsFile returns detailed statistics about a single report file
func (s *Service) StatsFile(req StatsFileRequest) (*StatsFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.stats.GetFileStats(req)
}

// SearchDirectory searches for report files in a directory
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	// If no directory specified, use the configured directory
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// StatsDirectory returns statistics about report files in a directory
func (s *Service) StatsDirectory(req StatsDirectoryRequest) (*StatsDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.stats.GetDirectoryStats(req)
}

// ClassesNeeded projects the consecutive classes required to reach the
// target percentage. A zero target falls back to the configured default.
func (s *Service) ClassesNeeded(req ClassesNeededRequest) (*ClassesNeededResult, error) {
	target := req.Target
	if target == 0 {
		target = s.targetPercentage
	}

	if err := validateProjectionInputs(req.Present, req.Total, target); err != nil {
		return nil, err
	}

	proj := attendance.ClassesNeeded(req.Present, req.Total, target)

	log.Debug().
		Int("present", req.Present).
		Int("total", req.Total).
		Float64("target", target).
		Str("projection", proj.String()).
		Msg("projected classes needed")

	return &ClassesNeededResult{
		Present:     req.Present,
		Total:       req.Total,
		Current:     attendance.Percentage(req.Present, req.Total),
		Target:      target,
		Unreachable: proj.Unreachable,
		Classes:     proj.Classes,
	}, nil
}

// ClassesCanMiss projects how many of the upcoming classes can be skipped
// while staying at or above the target percentage. A zero target falls
// back to the configured default; upcoming is taken literally.
func (s *Service) ClassesCanMiss(req ClassesCanMissRequest) (*ClassesCanMissResult, error) {
	target := req.Target
	if target == 0 {
		target = s.targetPercentage
	}

	if err := validateProjectionInputs(req.Present, req.Total, target); err != nil {
		return nil, err
	}

	canMiss := attendance.ClassesCanMiss(req.Present, req.Total, target, req.Upcoming)

	log.Debug().
		Int("present", req.Present).
		Int("total", req.Total).
		Float64("target", target).
		Int("upcoming", req.Upcoming).
		Int("can_miss", canMiss).
		Msg("projected skippable classes")

	return &ClassesCanMissResult{
		Present:  req.Present,
		Total:    req.Total,
		Current:  attendance.Percentage(req.Present, req.Total),
		Target:   target,
		Upcoming: req.Upcoming,
		CanMiss:  canMiss,
	}, nil
}

// Trend projects the attendance percentage over the next classes under
// the attend-everything and miss-everything scenarios
func (s *Service) Trend(req TrendRequest) (*TrendResult, error) {
	if req.Present < 0 {
		return nil, fmt.Errorf("present cannot be negative: %d", req.Present)
	}
	if req.Total < 0 {
		return nil, fmt.Errorf("total cannot be negative: %d", req.Total)
	}
	if req.Horizon < 0 {
		return nil, fmt.Errorf("horizon cannot be negative: %d", req.Horizon)
	}

	return &TrendResult{
		Present: req.Present,
		Total:   req.Total,
		Horizon: req.Horizon,
		Points:  attendance.Trend(req.Present, req.Total, req.Horizon),
	}, nil
}

// ServerInfo returns server information including the tool inventory and
// a bounded listing of the reports directory
func (s *Service) ServerInfo(ctx context.Context, req ServerInfoRequest, serverName, version, defaultDirectory string) (
	*ServerInfoResult, error,
) {
	return s.serverInfo.GetServerInfo(ctx, serverName, version, defaultDirectory)
}

// CacheClear drops every cached extraction result along with the cached
// directory listings
func (s *Service) CacheClear(req CacheClearRequest) (*CacheClearResult, error) {
	cleared := s.cache.Clear()
	s.serverInfo.ClearDirectoryCache()
	log.Debug().Int("cleared", cleared).Msg("extraction cache cleared")
	return &CacheClearResult{Cleared: cleared}, nil
}

// CacheStats returns the extraction cache counters
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// InvalidateCached drops the cached record for one piece of raw text
func (s *Service) InvalidateCached(text string) bool {
	return s.cache.Invalidate(KeyFrom(text))
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// GetTargetPercentage returns the configured target attendance percentage
func (s *Service) GetTargetPercentage() float64 {
	return s.targetPercentage
}

// GetUpcomingClasses returns the configured default upcoming class count
func (s *Service) GetUpcomingClasses() int {
	return s.upcomingClasses
}

// IsValidReport performs a quick validation check on a file
func (s *Service) IsValidReport(filePath string) bool {
	return s.validator.IsValidReport(filePath)
}

// CountReportsInDirectory counts the number of valid report files in a directory
func (s *Service) CountReportsInDirectory(directory string) (int, error) {
	return s.search.CountReportsInDirectory(directory)
}

// FindReportsInDirectory finds all report files in a directory without filtering
func (s *Service) FindReportsInDirectory(directory string) ([]FileInfo, error) {
	return s.search.FindReportsInDirectory(directory)
}

// SearchByPattern searches for report files matching a glob pattern
func (s *Service) SearchByPattern(directory, pattern string) (*SearchDirectoryResult, error) {
	return s.search.SearchByPattern(directory, pattern)
}

// validateProjectionInputs rejects out-of-range projection arguments
func validateProjectionInputs(present, total int, target float64) error {
	if present < 0 {
		return fmt.Errorf("present cannot be negative: %d", present)
	}
	if total < 0 {
		return fmt.Errorf("total cannot be negative: %d", total)
	}
	if target <= 0 || target > 100 {
		return fmt.Errorf("target must be within (0, 100]: %v", target)
	}
	return nil
}
