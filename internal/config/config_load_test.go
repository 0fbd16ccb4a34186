package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("MCP_ATTENDANCE_MODE")
	os.Unsetenv("MCP_ATTENDANCE_HOST")
	os.Unsetenv("MCP_ATTENDANCE_PORT")
	os.Unsetenv("MCP_ATTENDANCE_DIR")
	os.Unsetenv("MCP_ATTENDANCE_LOGLEVEL")
	os.Unsetenv("MCP_ATTENDANCE_MAXFILESIZE")
	os.Unsetenv("MCP_ATTENDANCE_TARGET")
	os.Unsetenv("MCP_ATTENDANCE_UPCOMING")
	os.Unsetenv("MCP_ATTENDANCE_RULES")
	os.Unsetenv("MCP_ATTENDANCE_CACHEENTRIES")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// Set minimal args (just program name)
	setArgs([]string{"mcp-attendance"})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Verify default values
	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50*1024*1024)
	}
	if cfg.TargetPercentage != 75.0 {
		t.Errorf("LoadFromFlags() TargetPercentage = %v, want %v", cfg.TargetPercentage, 75.0)
	}
	if cfg.UpcomingClasses != 10 {
		t.Errorf("LoadFromFlags() UpcomingClasses = %v, want %v", cfg.UpcomingClasses, 10)
	}
	if cfg.CacheEntries != 256 {
		t.Errorf("LoadFromFlags() CacheEntries = %v, want %v", cfg.CacheEntries, 256)
	}
	// ReportsDirectory should be current working directory
	if cfg.ReportsDirectory == "" {
		t.Error("LoadFromFlags() ReportsDirectory should not be empty")
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name            string
		argsTemplate    []string
		wantMode        string
		wantHost        string
		wantPort        int
		wantLogLevel    string
		wantMaxFileSize int64
		wantTarget      float64
		wantUpcoming    int
	}{
		{
			name:            "stdio mode with custom directory",
			argsTemplate:    []string{"mcp-attendance", "--dir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantTarget:      75.0,
			wantUpcoming:    10,
		},
		{
			name:            "server mode",
			argsTemplate:    []string{"mcp-attendance", "--mode=server", "--dir=%s"},
			wantMode:        "server",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantTarget:      75.0,
			wantUpcoming:    10,
		},
		{
			name:            "server mode with custom host and port",
			argsTemplate:    []string{"mcp-attendance", "--mode=server", "--host=0.0.0.0", "--port=9090", "--dir=%s"},
			wantMode:        "server",
			wantHost:        "0.0.0.0",
			wantPort:        9090,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantTarget:      75.0,
			wantUpcoming:    10,
		},
		{
			name:            "debug logging",
			argsTemplate:    []string{"mcp-attendance", "--loglevel=debug", "--dir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantLogLevel:    "debug",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantTarget:      75.0,
			wantUpcoming:    10,
		},
		{
			name:            "custom max file size",
			argsTemplate:    []string{"mcp-attendance", "--maxfilesize=5000000", "--dir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantLogLevel:    "info",
			wantMaxFileSize: 5000000,
			wantTarget:      75.0,
			wantUpcoming:    10,
		},
		{
			name:            "custom projection defaults",
			argsTemplate:    []string{"mcp-attendance", "--target=80.5", "--upcoming=12", "--dir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantTarget:      80.5,
			wantUpcoming:    12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original args and environment
			originalArgs := os.Args
			defer func() {
				os.Args = originalArgs
				resetFlags()
				clearEnvVars()
			}()

			// Create temp directory for this test
			tempDir := t.TempDir()

			// Build args with temp directory
			args := make([]string, len(tt.argsTemplate))
			for i, arg := range tt.argsTemplate {
				if arg == "--dir=%s" {
					args[i] = "--dir=" + tempDir
				} else {
					args[i] = arg
				}
			}

			setArgs(args)
			resetFlags()
			clearEnvVars()

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.MaxFileSize != tt.wantMaxFileSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxFileSize)
			}
			if cfg.TargetPercentage != tt.wantTarget {
				t.Errorf("LoadFromFlags() TargetPercentage = %v, want %v", cfg.TargetPercentage, tt.wantTarget)
			}
			if cfg.UpcomingClasses != tt.wantUpcoming {
				t.Errorf("LoadFromFlags() UpcomingClasses = %v, want %v", cfg.UpcomingClasses, tt.wantUpcoming)
			}
			// ReportsDirectory should be expanded to absolute path
			if cfg.ReportsDirectory == "" {
				t.Error("LoadFromFlags() ReportsDirectory should not be empty")
			}
		})
	}
}

func TestLoadFromFlags_RulesFile(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	rulesPath := filepath.Join(tempDir, "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte("closing_keywords:\n  - Total\n"), 0o644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	setArgs([]string{"mcp-attendance", "--dir=" + tempDir, "--rules=" + rulesPath})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if !filepath.IsAbs(cfg.RulesFile) {
		t.Errorf("LoadFromFlags() RulesFile should be absolute, got %v", cfg.RulesFile)
	}
	if !strings.HasSuffix(cfg.RulesFile, "rules.yaml") {
		t.Errorf("LoadFromFlags() RulesFile = %v, want path ending in rules.yaml", cfg.RulesFile)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// Create temp directory for testing
	tempDir := t.TempDir()

	// Set environment variables
	os.Setenv("MCP_ATTENDANCE_MODE", "server")
	os.Setenv("MCP_ATTENDANCE_HOST", "192.168.1.1")
	os.Setenv("MCP_ATTENDANCE_PORT", "3000")
	os.Setenv("MCP_ATTENDANCE_DIR", tempDir)
	os.Setenv("MCP_ATTENDANCE_LOGLEVEL", "warn")
	os.Setenv("MCP_ATTENDANCE_MAXFILESIZE", "2000000")
	os.Setenv("MCP_ATTENDANCE_TARGET", "80.5")
	os.Setenv("MCP_ATTENDANCE_UPCOMING", "12")
	os.Setenv("MCP_ATTENDANCE_CACHEENTRIES", "64")

	setArgs([]string{"mcp-attendance"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "server")
	}
	if cfg.Host != "192.168.1.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "192.168.1.1")
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 2000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 2000000)
	}
	if cfg.TargetPercentage != 80.5 {
		t.Errorf("LoadFromFlags() TargetPercentage = %v, want %v", cfg.TargetPercentage, 80.5)
	}
	if cfg.UpcomingClasses != 12 {
		t.Errorf("LoadFromFlags() UpcomingClasses = %v, want %v", cfg.UpcomingClasses, 12)
	}
	if cfg.CacheEntries != 64 {
		t.Errorf("LoadFromFlags() CacheEntries = %v, want %v", cfg.CacheEntries, 64)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// Set environment variables
	os.Setenv("MCP_ATTENDANCE_MODE", "server")
	os.Setenv("MCP_ATTENDANCE_HOST", "192.168.1.1")
	os.Setenv("MCP_ATTENDANCE_TARGET", "90")

	// Set args that should override environment
	setArgs([]string{"mcp-attendance", "--mode=stdio", "--host=localhost", "--target=70"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Flags should override environment variables
	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.Host != "localhost" {
		t.Errorf("LoadFromFlags() Host = %v, want %v (should override env)", cfg.Host, "localhost")
	}
	if cfg.TargetPercentage != 70.0 {
		t.Errorf("LoadFromFlags() TargetPercentage = %v, want %v (should override env)", cfg.TargetPercentage, 70.0)
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"mcp-attendance", "--mode=invalid", "--dir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid mode")
	}
	if err != nil && !strings.Contains(err.Error(), "mode must be either 'stdio' or 'server'") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid mode", err)
	}
}

func TestLoadFromFlags_InvalidPort(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"mcp-attendance", "--mode=server", "--port=99999", "--dir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid port")
	}
	if err != nil && !strings.Contains(err.Error(), "port must be between 1 and 65535") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid port", err)
	}
}

func TestLoadFromFlags_InvalidLogLevel(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"mcp-attendance", "--loglevel=invalid", "--dir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid log level")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid log level", err)
	}
}

func TestLoadFromFlags_InvalidTarget(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"mcp-attendance", "--target=150", "--dir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid target")
	}
	if err != nil && !strings.Contains(err.Error(), "target percentage must be within (0, 100]") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid target", err)
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"mcp-attendance", "--version"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected version error")
	}
	if err != nil && err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
