package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetaHandler serves the service metadata and API-scoped health endpoints.
type MetaHandler struct {
	service string
	version string
}

// NewMetaHandler creates a MetaHandler for the given service name and version.
func NewMetaHandler(service, version string) *MetaHandler {
	return &MetaHandler{service: service, version: version}
}

// Root returns service metadata and the endpoint map.
func (h *MetaHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "PDF Relay API",
		"version": h.version,
		"endpoints": gin.H{
			"health":   "/api/v1/pdf/health",
			"download": "/api/v1/pdf/download",
		},
	})
}

// Health returns API-scoped health status.
func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}
