package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	assertStringEqual(t, "service.name", defaultServiceName, cfg.Service.Name)
	assertStringEqual(t, "service.version", defaultVersion, cfg.Service.Version)
	assertIntEqual(t, "service.port", defaultServicePort, cfg.Service.Port)
	assertStringEqual(t, "service.environment", defaultEnvironment, cfg.Service.Environment)

	assertIntEqual(t, "download.timeout_seconds", defaultTimeoutSeconds, cfg.Download.TimeoutSeconds)
	assertIntEqual(t, "download.max_size_mb", defaultMaxSizeMB, cfg.Download.MaxSizeMB)

	assertStringEqual(t, "logging.level", defaultLoggingLevel, cfg.Logging.Level)
	assertStringEqual(t, "logging.format", defaultLoggingFmt, cfg.Logging.Format)
}

func TestValidate_ValidDevelopmentConfig(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	// Development tolerates a missing API key.
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no validation error, got: %v", err)
	}
}

func TestValidate_MissingAPIKeyInProduction(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.Environment = "production"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing API key in production, got nil")
	}

	expected := "security.api_key: is required outside development"
	if err.Error() != expected {
		t.Errorf("error message: got %q, want %q", err.Error(), expected)
	}
}

func TestValidate_TimeoutBounds(t *testing.T) {
	t.Helper()

	for _, timeout := range []int{-1, 61, 1000} {
		cfg := &Config{}
		setDefaults(cfg)
		cfg.Download.TimeoutSeconds = timeout

		if err := cfg.Validate(); err == nil {
			t.Errorf("timeout_seconds=%d: expected validation error, got nil", timeout)
		}
	}

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Download.TimeoutSeconds = maxTimeoutSeconds
	if err := cfg.Validate(); err != nil {
		t.Errorf("timeout_seconds=%d: expected ceiling to be accepted, got: %v", maxTimeoutSeconds, err)
	}
}

func TestValidate_SizeBounds(t *testing.T) {
	t.Helper()

	for _, size := range []int{-1, 101, 5000} {
		cfg := &Config{}
		setDefaults(cfg)
		cfg.Download.MaxSizeMB = size

		if err := cfg.Validate(); err == nil {
			t.Errorf("max_size_mb=%d: expected validation error, got nil", size)
		}
	}

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Download.MaxSizeMB = maxMaxSizeMB
	if err := cfg.Validate(); err != nil {
		t.Errorf("max_size_mb=%d: expected ceiling to be accepted, got: %v", maxMaxSizeMB, err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range port, got nil")
	}
}

func TestDownloadConversions(t *testing.T) {
	t.Helper()

	dl := &DownloadConfig{TimeoutSeconds: 30, MaxSizeMB: 50}

	if got := dl.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want %v", got, 30*time.Second)
	}
	if got := dl.MaxBytes(); got != 50*1024*1024 {
		t.Errorf("MaxBytes() = %d, want %d", got, 50*1024*1024)
	}
}

func TestCORSOrigins_ExplicitListWins(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.CORS.AllowedOrigins = []string{"https://viewer.example.com"}

	got := cfg.CORSOrigins()
	if len(got) != 1 || got[0] != "https://viewer.example.com" {
		t.Errorf("CORSOrigins() = %v, want the configured list", got)
	}
}

func TestCORSOrigins_DevelopmentFallback(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	got := cfg.CORSOrigins()
	if len(got) != len(developmentOrigins) {
		t.Fatalf("CORSOrigins() returned %d origins, want %d", len(got), len(developmentOrigins))
	}
}

func TestCORSOrigins_ProductionEmpty(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.Environment = "production"

	if got := cfg.CORSOrigins(); len(got) != 0 {
		t.Errorf("CORSOrigins() = %v, want none in production without a configured list", got)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Helper()

	path := writeConfigFile(t, "service: {}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertStringEqual(t, "service.name", defaultServiceName, cfg.Service.Name)
	assertIntEqual(t, "download.timeout_seconds", defaultTimeoutSeconds, cfg.Download.TimeoutSeconds)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "service:\n  port: 9000\n")

	t.Setenv("PDF_RELAY_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertIntEqual(t, "service.port", 9100, cfg.Service.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Helper()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

// writeConfigFile writes content to a temp config file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// assertStringEqual is a test helper that checks string equality.
func assertStringEqual(t *testing.T, field, want, got string) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}

// assertIntEqual is a test helper that checks int equality.
func assertIntEqual(t *testing.T, field string, want, got int) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %d, want %d", field, got, want)
	}
}
