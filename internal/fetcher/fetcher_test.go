package fetcher_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/pdf-relay/internal/domain"
	"github.com/jonesrussell/pdf-relay/internal/fetcher"
	"github.com/jonesrussell/pdf-relay/internal/httpclient"
	"github.com/jonesrussell/pdf-relay/internal/logger"
	"github.com/jonesrussell/pdf-relay/internal/storage"
)

// Test limits, kept small so overflow cases stay cheap.
const (
	testMaxBytes = int64(16 * 1024)
	testTimeout  = 5 * time.Second
)

func newTestFetcher(t *testing.T) (*fetcher.Fetcher, string) {
	t.Helper()

	dir := t.TempDir()
	store := storage.New(dir, logger.NewNop())
	client := httpclient.New(httpclient.Config{})

	f := fetcher.New(client, store, logger.NewNop(), fetcher.Config{
		Timeout:  testTimeout,
		MaxBytes: testMaxBytes,
	})
	return f, dir
}

// tempFileCount reports how many files are left in the store's directory.
func tempFileCount(t *testing.T, dir string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	return len(entries)
}

func TestFetch_Success(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 1234)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t)

	result, err := f.Fetch(context.Background(), domain.FetchRequest{
		URL: srv.URL + "/docs/report.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}

	if result.Size != int64(len(body)) {
		t.Errorf("size = %d, want %d", result.Size, len(body))
	}
	if result.Filename != "report.pdf" {
		t.Errorf("filename = %q, want %q", result.Filename, "report.pdf")
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Errorf("downloaded file has %d bytes, differs from served body", len(data))
	}

	if n := tempFileCount(t, dir); n != 1 {
		t.Errorf("temp files after success = %d, want 1", n)
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f, _ := newTestFetcher(t)

	if _, err := f.Fetch(context.Background(), domain.FetchRequest{URL: srv.URL + "/a.pdf"}); err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}

	if !strings.Contains(gotUA, "PDF-Downloader") {
		t.Errorf("user agent = %q, want it to identify the downloader", gotUA)
	}
}

func TestFetch_UpstreamStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		f, dir := newTestFetcher(t)

		_, err := f.Fetch(context.Background(), domain.FetchRequest{URL: srv.URL + "/missing.pdf"})
		srv.Close()

		var statusErr *domain.UpstreamStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want UpstreamStatusError", err)
		}
		if statusErr.StatusCode != status {
			t.Errorf("status code = %d, want %d", statusErr.StatusCode, status)
		}
		if got, want := err.Error(), "HTTP error: "+strconv.Itoa(status); got != want {
			t.Errorf("error message = %q, want %q", got, want)
		}
		if n := tempFileCount(t, dir); n != 0 {
			t.Errorf("temp files after upstream %d = %d, want 0", status, n)
		}
	}
}

func TestFetch_DeclaredSizeTooLarge(t *testing.T) {
	big := make([]byte, testMaxBytes+1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(big)))
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), domain.FetchRequest{URL: srv.URL + "/big.pdf"})

	var sizeErr *domain.SizeLimitError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error = %v, want SizeLimitError", err)
	}
	if !sizeErr.Declared {
		t.Error("expected the declared Content-Length to trigger the limit")
	}
	if sizeErr.Bytes != testMaxBytes+1 {
		t.Errorf("reported bytes = %d, want %d", sizeErr.Bytes, testMaxBytes+1)
	}
	if !strings.HasPrefix(err.Error(), "File size too large:") {
		t.Errorf("error message = %q, want 'File size too large' prefix", err.Error())
	}

	// The header check fires before any temp file is allocated.
	if n := tempFileCount(t, dir); n != 0 {
		t.Errorf("temp files after declared-size rejection = %d, want 0", n)
	}
}

func TestFetch_StreamOverflow(t *testing.T) {
	// Chunked response with no Content-Length, so only the running byte
	// count can catch the overflow.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		chunk := make([]byte, 4096)
		for written := int64(0); written <= testMaxBytes; written += int64(len(chunk)) {
			if _, err := w.Write(chunk); err != nil {
				return
			}
			flusher.Flush()
		}
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), domain.FetchRequest{URL: srv.URL + "/endless.pdf"})

	var sizeErr *domain.SizeLimitError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error = %v, want SizeLimitError", err)
	}
	if sizeErr.Declared {
		t.Error("expected the streamed byte count to trigger the limit, not the header")
	}
	if sizeErr.Bytes <= testMaxBytes {
		t.Errorf("reported bytes = %d, want more than %d", sizeErr.Bytes, testMaxBytes)
	}
	if !strings.HasPrefix(err.Error(), "File size exceeded limit:") {
		t.Errorf("error message = %q, want 'File size exceeded limit' prefix", err.Error())
	}

	// The partial file must not survive the failed fetch.
	if n := tempFileCount(t, dir); n != 0 {
		t.Errorf("temp files after stream overflow = %d, want 0", n)
	}
}

func TestFetch_TruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write(make([]byte, 100))
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), domain.FetchRequest{URL: srv.URL + "/cut.pdf"})

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if n := tempFileCount(t, dir); n != 0 {
		t.Errorf("temp files after truncated body = %d, want 0", n)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	f, dir := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), domain.FetchRequest{URL: deadURL + "/a.pdf"})

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if n := tempFileCount(t, dir); n != 0 {
		t.Errorf("temp files after refused connection = %d, want 0", n)
	}
}

func TestFetch_NonPDFContentTypeStillSucceeds(t *testing.T) {
	body := []byte("<html>not a pdf</html>")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f, _ := newTestFetcher(t)

	result, err := f.Fetch(context.Background(), domain.FetchRequest{URL: srv.URL + "/page.pdf"})
	if err != nil {
		t.Fatalf("content type mismatch should only warn, got error: %v", err)
	}
	if result.Size != int64(len(body)) {
		t.Errorf("size = %d, want %d", result.Size, len(body))
	}
}

func TestFetch_DesiredFilenameWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f, _ := newTestFetcher(t)

	result, err := f.Fetch(context.Background(), domain.FetchRequest{
		URL:      srv.URL + "/server-name.pdf",
		Filename: "annual-report",
	})
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if result.Filename != "annual-report.pdf" {
		t.Errorf("filename = %q, want %q", result.Filename, "annual-report.pdf")
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, domain.FetchRequest{URL: srv.URL + "/a.pdf"})

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if n := tempFileCount(t, dir); n != 0 {
		t.Errorf("temp files after canceled fetch = %d, want 0", n)
	}
}
