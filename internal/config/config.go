package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "pdf-relay"
	defaultServicePort  = 8080
	defaultVersion      = "0.1.0"
	defaultEnvironment  = "development"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"

	defaultTimeoutSeconds = 30
	defaultMaxSizeMB      = 50

	// Hard ceilings for the download limits. Values above these are
	// rejected at startup rather than clamped.
	maxTimeoutSeconds = 60
	maxMaxSizeMB      = 100

	bytesPerMB = 1024 * 1024
)

// developmentOrigins are the CORS origins allowed when no explicit
// allow-list is configured in a development environment.
var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
}

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Security SecurityConfig `yaml:"security"`
	Download DownloadConfig `yaml:"download"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"PDF_RELAY_PORT" yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"      yaml:"debug"`
	Environment string `env:"PDF_RELAY_ENV"  yaml:"environment"`
}

// SecurityConfig holds API authentication configuration.
type SecurityConfig struct {
	APIKey string `env:"PDF_RELAY_API_KEY" yaml:"api_key"`
}

// DownloadConfig bounds the relay fetch: wall-clock timeout for the whole
// upstream request and the maximum accepted document size.
type DownloadConfig struct {
	TimeoutSeconds int `env:"DOWNLOAD_TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	MaxSizeMB      int `env:"DOWNLOAD_MAX_SIZE_MB"     yaml:"max_size_mb"`
}

// Timeout returns the fetch timeout as a duration.
func (d *DownloadConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// MaxBytes returns the size limit in bytes.
func (d *DownloadConfig) MaxBytes() int64 {
	return int64(d.MaxSizeMB) * bytesPerMB
}

// CORSConfig holds the cross-origin allow-list.
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDownloadDefaults(&cfg.Download)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.Environment == "" {
		svc.Environment = defaultEnvironment
	}
}

// setDownloadDefaults applies default values to DownloadConfig.
func setDownloadDefaults(dl *DownloadConfig) {
	if dl.TimeoutSeconds == 0 {
		dl.TimeoutSeconds = defaultTimeoutSeconds
	}
	if dl.MaxSizeMB == 0 {
		dl.MaxSizeMB = defaultMaxSizeMB
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment == "development"
}

// CORSOrigins returns the effective CORS allow-list. An explicit list always
// wins; development falls back to local frontend origins; production with no
// list configured allows nothing.
func (c *Config) CORSOrigins() []string {
	if len(c.CORS.AllowedOrigins) > 0 {
		return c.CORS.AllowedOrigins
	}
	if c.IsDevelopment() {
		return developmentOrigins
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Security.APIKey == "" && !c.IsDevelopment() {
		return &ValidationError{
			Field:   "security.api_key",
			Message: "is required outside development",
		}
	}
	if c.Download.TimeoutSeconds <= 0 || c.Download.TimeoutSeconds > maxTimeoutSeconds {
		return &ValidationError{
			Field:   "download.timeout_seconds",
			Message: "must be between 1 and 60",
		}
	}
	if c.Download.MaxSizeMB <= 0 || c.Download.MaxSizeMB > maxMaxSizeMB {
		return &ValidationError{
			Field:   "download.max_size_mb",
			Message: "must be between 1 and 100",
		}
	}
	return nil
}
