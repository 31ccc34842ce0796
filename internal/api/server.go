// Package api assembles the relay's HTTP server from its handlers,
// middleware, and server infrastructure.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pdf-relay/internal/config"
	"github.com/jonesrussell/pdf-relay/internal/handler"
	"github.com/jonesrussell/pdf-relay/internal/httpserver"
	"github.com/jonesrussell/pdf-relay/internal/logger"
	"github.com/jonesrussell/pdf-relay/internal/storage"
	"github.com/jonesrussell/pdf-relay/internal/telemetry"
)

const (
	defaultReadTimeout = 30 * time.Second
	// The write timeout covers the upstream fetch plus delivery to the
	// client, so it sits well above the highest allowed fetch timeout.
	defaultWriteTimeout = 150 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// NewServer creates a new HTTP server.
func NewServer(
	downloadHandler *handler.DownloadHandler,
	metaHandler *handler.MetaHandler,
	metrics *telemetry.Provider,
	store *storage.Store,
	cfg *config.Config,
	log logger.Logger,
) *httpserver.Server {
	return httpserver.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORS(httpserver.CORSConfig{
			Enabled:          true,
			AllowedOrigins:   cfg.CORSOrigins(),
			AllowCredentials: true,
		}).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithHealthCheck("storage", storageHealthCheck(store)).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, downloadHandler, metaHandler, metrics, cfg.Security.APIKey)
		}).
		Build()
}

// storageHealthCheck verifies that temporary storage is writable by
// allocating and removing a scratch file.
func storageHealthCheck(store *storage.Store) httpserver.HealthChecker {
	return httpserver.PingHealthChecker("temporary storage unavailable", func() error {
		f, err := store.Allocate()
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		store.Remove(f.Path())
		return nil
	})
}
