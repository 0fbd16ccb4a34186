package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-attendance/internal/config"
	"github.com/a3tai/mcp-attendance/internal/mcp"
	"github.com/a3tai/mcp-attendance/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures the global logger based on the server mode
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsStdioMode() {
		// In stdio mode, log to stderr to avoid interfering with the MCP protocol,
		// and stay silent entirely unless debug is enabled
		if cfg.IsDebug() {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		} else {
			log.Logger = zerolog.Nop()
		}
	} else {
		// In server mode, use human-readable stderr logging with timestamps
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("received signal, initiating graceful shutdown")
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			log.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	log.Info().Msg("server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, _ context.CancelFunc, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set up logging based on mode
	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Debug().Str("config", cfg.String()).Msg("starting with configuration")
	}

	// Create report service
	service, err := report.NewService(report.ServiceConfig{
		MaxFileSize:      cfg.MaxFileSize,
		ReportsDirectory: cfg.ReportsDirectory,
		TargetPercentage: cfg.TargetPercentage,
		UpcomingClasses:  cfg.UpcomingClasses,
		CacheEntries:     cfg.CacheEntries,
		RulesFile:        cfg.RulesFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create report service")
	}

	// Create MCP server
	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MCP server")
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle different modes
	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, cancel, server)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP Attendance Server\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
