package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pdf-relay/internal/handler"
	"github.com/jonesrussell/pdf-relay/internal/middleware"
	"github.com/jonesrussell/pdf-relay/internal/telemetry"
)

// SetupRoutes configures all API routes.
// Infrastructure health routes are registered by the server builder.
func SetupRoutes(
	router *gin.Engine,
	downloadHandler *handler.DownloadHandler,
	metaHandler *handler.MetaHandler,
	metrics *telemetry.Provider,
	apiKey string,
) {
	router.GET("/", metaHandler.Root)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	pdf := router.Group("/api/v1/pdf")
	pdf.GET("/health", metaHandler.Health)

	// Download endpoints require the API key; health does not.
	download := pdf.Group("")
	download.Use(middleware.RequireAPIKey(apiKey))
	download.POST("/download", downloadHandler.Download)
	download.GET("/download", downloadHandler.Download)
}
