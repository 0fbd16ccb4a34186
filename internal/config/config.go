package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-attendance/internal/attendance"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 50 * 1024 * 1024 // 50MB
	DefaultCacheEntries = 256
)

// Config holds all configuration for the attendance MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Report configuration
	ReportsDirectory string
	MaxFileSize      int64 // Maximum report file size in bytes
	RulesFile        string
	CacheEntries     int

	// Projection configuration
	TargetPercentage float64
	UpcomingClasses  int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		ReportsDirectory: currentDir,
		MaxFileSize:      DefaultMaxFileSize,
		RulesFile:        "",
		CacheEntries:     DefaultCacheEntries,
		TargetPercentage: attendance.DefaultTargetPercentage,
		UpcomingClasses:  attendance.DefaultUpcomingClasses,
		Version:          "1.0.0",
		ServerName:       "mcp-attendance",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.ReportsDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.ReportsDirectory); err == nil {
			cfg.ReportsDirectory = expandedPath
		}
	}
	if cfg.RulesFile != "" {
		if expandedPath, err := filepath.Abs(cfg.RulesFile); err == nil {
			cfg.RulesFile = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("MCP_ATTENDANCE")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.ReportsDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("target", cfg.TargetPercentage)
	viper.SetDefault("upcoming", cfg.UpcomingClasses)
	viper.SetDefault("rules", cfg.RulesFile)
	viper.SetDefault("cacheentries", cfg.CacheEntries)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.ReportsDirectory, "Directory containing attendance report PDFs")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum report file size in bytes")
	pflag.Float64("target", cfg.TargetPercentage, "Default target attendance percentage for projections")
	pflag.Int("upcoming", cfg.UpcomingClasses, "Default number of upcoming classes for projections")
	pflag.String("rules", cfg.RulesFile, "Optional YAML file overriding the extraction rule set")
	pflag.Int("cacheentries", cfg.CacheEntries, "Maximum number of cached extraction results")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("target", pflag.Lookup("target"))
	_ = viper.BindPFlag("upcoming", pflag.Lookup("upcoming"))
	_ = viper.BindPFlag("rules", pflag.Lookup("rules"))
	_ = viper.BindPFlag("cacheentries", pflag.Lookup("cacheentries"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Attendance - A Model Context Protocol server for student attendance reports\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/reports                  "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --target=80 --upcoming=12               # custom projection defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/reports    # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_MODE          Server mode\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_HOST          Server host\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_PORT          Server port\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_DIR           Reports directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_MAXFILESIZE   Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_TARGET        Default target percentage\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_UPCOMING      Default upcoming classes\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_RULES         Extraction rules file\n")
		fmt.Fprintf(os.Stderr, "  MCP_ATTENDANCE_CACHEENTRIES  Extraction cache size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.ReportsDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.TargetPercentage = viper.GetFloat64("target")
	cfg.UpcomingClasses = viper.GetInt("upcoming")
	cfg.RulesFile = viper.GetString("rules")
	cfg.CacheEntries = viper.GetInt("cacheentries")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate reports directory. Existence is not required here: clients
	// sometimes configure placeholder paths that only resolve at runtime,
	// so missing directories surface when files are actually read.
	if c.ReportsDirectory == "" {
		return errors.New("reports directory cannot be empty")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate projection defaults
	if c.TargetPercentage <= 0 || c.TargetPercentage > 100 {
		return fmt.Errorf("target percentage must be within (0, 100], got %v", c.TargetPercentage)
	}
	if c.UpcomingClasses <= 0 {
		return errors.New("upcoming classes must be positive")
	}

	// Validate cache size
	if c.CacheEntries <= 0 {
		return errors.New("cache entries must be positive")
	}

	// Validate rules file when one is configured
	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesFile, err)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Mode: %s, Host: %s, Port: %d, ReportsDirectory: %s, LogLevel: %s, MaxFileSize: %d, Target: %.1f, Upcoming: %d}",
		c.Mode, c.Host, c.Port, c.ReportsDirectory, c.LogLevel, c.MaxFileSize, c.TargetPercentage, c.UpcomingClasses)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
