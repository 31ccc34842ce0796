// Package fetcher implements the bounded streaming download at the heart of
// the relay: one HTTP GET, written to temporary storage in fixed-size
// chunks, with the byte ceiling enforced on the running total rather than
// trusted from upstream headers.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/pdf-relay/internal/domain"
	"github.com/jonesrussell/pdf-relay/internal/logger"
	"github.com/jonesrussell/pdf-relay/internal/storage"
)

// userAgent identifies the relay to upstream servers.
const userAgent = "Mozilla/5.0 (compatible; PDF-Downloader/1.0)"

// chunkSize is the streaming copy buffer size.
const chunkSize = 8 * 1024

// Doer issues a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config bounds each fetch.
type Config struct {
	// Timeout caps the whole request, connect plus body read.
	// Zero means the caller's context is the only bound.
	Timeout time.Duration
	// MaxBytes caps the accepted document size.
	MaxBytes int64
}

// Fetcher streams remote documents into temporary storage.
type Fetcher struct {
	client Doer
	store  *storage.Store
	log    logger.Logger
	cfg    Config
}

// New creates a Fetcher with the given collaborators.
func New(client Doer, store *storage.Store, log logger.Logger, cfg Config) *Fetcher {
	return &Fetcher{
		client: client,
		store:  store,
		log:    log,
		cfg:    cfg,
	}
}

// Fetch downloads the document named by req into a freshly allocated
// temporary file and returns its handle. Ownership of the file passes to
// the caller on success; on any failure the partial file is removed before
// the error is returned, so an error always means nothing is left on disk.
func (f *Fetcher) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	filename := ResolveFilename(req.Filename, req.URL)

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, http.NoBody)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	// Redirects are followed by the client; only the final status counts.
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	// Header short-circuit. The streaming check below is the real
	// enforcement; this only avoids pointless I/O when upstream is honest.
	if resp.ContentLength > f.cfg.MaxBytes {
		return nil, &domain.SizeLimitError{
			Bytes:    resp.ContentLength,
			Limit:    f.cfg.MaxBytes,
			Declared: true,
		}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "pdf") {
		f.log.Warn("Upstream content type is not PDF",
			logger.String("url", req.URL),
			logger.String("content_type", ct),
		)
	}

	tmp, err := f.store.Allocate()
	if err != nil {
		return nil, &domain.ResourceError{Err: err}
	}

	size, streamErr := f.stream(resp.Body, tmp)
	closeErr := tmp.Close()
	if streamErr != nil {
		f.store.Remove(tmp.Path())
		return nil, streamErr
	}
	if closeErr != nil {
		f.store.Remove(tmp.Path())
		return nil, &domain.ResourceError{Err: closeErr}
	}

	f.log.Info("Downloaded document",
		logger.String("url", req.URL),
		logger.String("filename", filename),
		logger.Int64("bytes", size),
	)

	return &domain.FetchResult{
		Path:     tmp.Path(),
		Size:     size,
		Filename: filename,
	}, nil
}

// stream copies body into tmp in fixed-size chunks, checking the running
// total against the byte ceiling after every chunk. The check fires on
// partial data no matter what Content-Length claimed.
func (f *Fetcher) stream(body io.Reader, tmp *storage.File) (int64, error) {
	buf := make([]byte, chunkSize)
	var total int64

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			total += int64(n)
			if total > f.cfg.MaxBytes {
				return total, &domain.SizeLimitError{
					Bytes: total,
					Limit: f.cfg.MaxBytes,
				}
			}
			if _, writeErr := tmp.Write(buf[:n]); writeErr != nil {
				return total, &domain.ResourceError{Err: writeErr}
			}
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, &domain.TransportError{Err: readErr}
		}
	}
}
