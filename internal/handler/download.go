// Package handler contains the gin handlers for the relay API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pdf-relay/internal/domain"
	"github.com/jonesrussell/pdf-relay/internal/logger"
	"github.com/jonesrussell/pdf-relay/internal/storage"
	"github.com/jonesrussell/pdf-relay/internal/telemetry"
)

// contentTypePDF is the media type of every successful download response.
const contentTypePDF = "application/pdf"

// Downloader fetches a remote document into temporary storage.
// *fetcher.Fetcher satisfies it.
type Downloader interface {
	Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
}

// DownloadRequest is the POST body for the download endpoint. GET requests
// carry the same fields as query parameters.
type DownloadRequest struct {
	URL      string `json:"url" form:"url"`
	Filename string `json:"filename" form:"filename"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// DownloadHandler relays remote PDF documents to clients.
type DownloadHandler struct {
	downloader Downloader
	store      *storage.Store
	metrics    *telemetry.Provider
	logger     logger.Logger
}

// NewDownloadHandler creates a DownloadHandler with the given dependencies.
func NewDownloadHandler(
	downloader Downloader,
	store *storage.Store,
	metrics *telemetry.Provider,
	log logger.Logger,
) *DownloadHandler {
	return &DownloadHandler{
		downloader: downloader,
		store:      store,
		metrics:    metrics,
		logger:     log,
	}
}

// Download handles download requests (both GET and POST). The remote
// document is fetched into a temp file, served back as an attachment, and
// the temp file is removed once the response has been written.
func (h *DownloadHandler) Download(c *gin.Context) {
	var req DownloadRequest

	// Support both GET and POST
	if c.Request.Method == http.MethodGet {
		req.URL = c.Query("url")
		req.Filename = c.Query("filename")
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("Invalid download request body",
				logger.Error(err),
			)
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:     "Invalid request body: " + err.Error(),
				Code:      "VALIDATION_ERROR",
				Timestamp: time.Now(),
			})
			return
		}
	}

	if msg := validateDownloadURL(req.URL); msg != "" {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:     msg,
			Code:      "VALIDATION_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	h.metrics.DownloadStarted()
	defer h.metrics.DownloadFinished()

	start := time.Now()
	result, err := h.downloader.Fetch(c.Request.Context(), domain.FetchRequest{
		URL:      req.URL,
		Filename: req.Filename,
	})
	if err != nil {
		h.metrics.RecordDownload(outcomeFor(err), 0, time.Since(start))
		h.respondFetchError(c, req.URL, err)
		return
	}
	h.metrics.RecordDownload(telemetry.OutcomeSuccess, result.Size, time.Since(start))

	h.serveAttachment(c, result)
}

// validateDownloadURL returns a rejection message, or "" when raw is an
// acceptable download target.
func validateDownloadURL(raw string) string {
	if raw == "" {
		return "url is required"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "url must be an absolute http or https URL"
	}
	return ""
}

// respondFetchError maps a fetch error onto the API error surface. Upstream
// rejections and size violations are the caller's problem and keep their
// message; everything else is an internal failure and gets a generic one.
func (h *DownloadHandler) respondFetchError(c *gin.Context, rawURL string, err error) {
	var (
		statusErr *domain.UpstreamStatusError
		sizeErr   *domain.SizeLimitError
	)

	statusCode := http.StatusInternalServerError
	errorCode := "DOWNLOAD_ERROR"
	message := "PDF download failed"

	switch {
	case errors.As(err, &statusErr):
		statusCode = http.StatusBadRequest
		errorCode = "UPSTREAM_STATUS"
		message = err.Error()
	case errors.As(err, &sizeErr):
		statusCode = http.StatusBadRequest
		errorCode = "SIZE_LIMIT"
		message = err.Error()
	}

	if statusCode == http.StatusInternalServerError {
		h.logger.Error("PDF download failed",
			logger.String("url", rawURL),
			logger.Error(err),
		)
	} else {
		h.logger.Warn("PDF download rejected",
			logger.String("url", rawURL),
			logger.Error(err),
		)
	}

	c.JSON(statusCode, ErrorResponse{
		Error:     message,
		Code:      errorCode,
		Timestamp: time.Now(),
	})
}

// serveAttachment streams the downloaded document to the client. Removal of
// the temp file is deferred so it runs only after the response write has
// returned, covering both delivered responses and aborted ones.
func (h *DownloadHandler) serveAttachment(c *gin.Context, result *domain.FetchResult) {
	cleanup := h.store.ScheduleRemoval(result.Path)
	defer cleanup()

	f, err := os.Open(result.Path)
	if err != nil {
		h.logger.Error("Failed to open downloaded file",
			logger.String("path", result.Path),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "PDF download failed",
			Code:      "DOWNLOAD_ERROR",
			Timestamp: time.Now(),
		})
		return
	}
	defer f.Close()

	h.logger.Info("Serving PDF file",
		logger.String("filename", result.Filename),
		logger.Int64("size", result.Size),
	)

	c.DataFromReader(http.StatusOK, result.Size, contentTypePDF, f, map[string]string{
		"Content-Disposition": "attachment; filename=" + result.Filename,
	})
}

// outcomeFor picks the metrics outcome label for a fetch error.
func outcomeFor(err error) string {
	var (
		statusErr    *domain.UpstreamStatusError
		sizeErr      *domain.SizeLimitError
		transportErr *domain.TransportError
		resourceErr  *domain.ResourceError
	)
	switch {
	case errors.As(err, &statusErr):
		return telemetry.OutcomeUpstreamStatus
	case errors.As(err, &sizeErr):
		return telemetry.OutcomeSizeLimit
	case errors.As(err, &transportErr):
		return telemetry.OutcomeTransport
	case errors.As(err, &resourceErr):
		return telemetry.OutcomeResource
	default:
		return telemetry.OutcomeInternal
	}
}
