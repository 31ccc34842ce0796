package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/pdf-relay/internal/api"
	"github.com/jonesrussell/pdf-relay/internal/config"
	"github.com/jonesrussell/pdf-relay/internal/fetcher"
	"github.com/jonesrussell/pdf-relay/internal/handler"
	"github.com/jonesrussell/pdf-relay/internal/httpclient"
	"github.com/jonesrussell/pdf-relay/internal/logger"
	"github.com/jonesrussell/pdf-relay/internal/profiling"
	"github.com/jonesrussell/pdf-relay/internal/storage"
	"github.com/jonesrussell/pdf-relay/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Start profiling server (if enabled)
	profiling.StartPprofServer()
	if pyroProfiler, pyroErr := profiling.StartPyroscope("pdf-relay"); pyroErr != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Pyroscope failed to start: %v\n", pyroErr)
	} else if pyroProfiler != nil {
		defer pyroProfiler.Stop() //nolint:errcheck // best-effort cleanup
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	return runServer(cfg, log)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger) int {
	store := storage.New("", log)
	client := httpclient.New(httpclient.Config{})
	pdfFetcher := fetcher.New(client, store, log, fetcher.Config{
		Timeout:  cfg.Download.Timeout(),
		MaxBytes: cfg.Download.MaxBytes(),
	})
	metrics := telemetry.NewProvider()

	downloadHandler := handler.NewDownloadHandler(pdfFetcher, store, metrics, log)
	metaHandler := handler.NewMetaHandler(cfg.Service.Name, cfg.Service.Version)

	if cfg.Security.APIKey == "" {
		log.Warn("API key not configured, download endpoints are unauthenticated")
	}

	server := api.NewServer(downloadHandler, metaHandler, metrics, store, cfg, log)

	log.Info("PDF relay starting",
		logger.Int("port", cfg.Service.Port),
		logger.Int("download_timeout_seconds", cfg.Download.TimeoutSeconds),
		logger.Int("max_size_mb", cfg.Download.MaxSizeMB),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("PDF relay exited cleanly")
	return 0
}
