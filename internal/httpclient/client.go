// Package httpclient builds the outbound HTTP client used to fetch remote
// documents.
package httpclient

import (
	"net/http"
	"time"
)

// Transport defaults. Connection pooling is tuned for a service that talks
// to many distinct upstream hosts, one request at a time per host.
const (
	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultExpectContinueTimeout = 1 * time.Second
)

// Config configures the outbound HTTP client.
type Config struct {
	// Timeout is the client-wide request limit. Zero means no client
	// limit; the fetcher bounds each request with a context deadline,
	// so zero is the normal setting here.
	Timeout time.Duration

	// MaxIdleConns caps idle keep-alive connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle keep-alive connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout closes idle connections after this duration.
	IdleConnTimeout time.Duration

	// ResponseHeaderTimeout bounds the wait for upstream response
	// headers. It does not cover reading the body.
	ResponseHeaderTimeout time.Duration
}

// New creates an HTTP client with a tuned transport. Zero-valued fields in
// cfg fall back to the package defaults.
func New(cfg Config) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          intOr(cfg.MaxIdleConns, DefaultMaxIdleConns),
		MaxIdleConnsPerHost:   intOr(cfg.MaxIdleConnsPerHost, DefaultMaxIdleConnsPerHost),
		IdleConnTimeout:       durationOr(cfg.IdleConnTimeout, DefaultIdleConnTimeout),
		ResponseHeaderTimeout: durationOr(cfg.ResponseHeaderTimeout, DefaultResponseHeaderTimeout),
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ExpectContinueTimeout: DefaultExpectContinueTimeout,
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

func intOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func durationOr(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
