// Package telemetry provides Prometheus instrumentation for the relay.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for the downloads counter.
const (
	OutcomeSuccess        = "success"
	OutcomeUpstreamStatus = "upstream_status"
	OutcomeSizeLimit      = "size_limit"
	OutcomeTransport      = "transport"
	OutcomeResource       = "resource"
	OutcomeInternal       = "internal"
)

// Metrics holds all relay Prometheus metrics.
type Metrics struct {
	// Download pipeline metrics
	DownloadsTotal   *prometheus.CounterVec
	DownloadBytes    prometheus.Histogram
	DownloadDuration prometheus.Histogram

	// Resource lifecycle metrics
	ActiveDownloads prometheus.Gauge
}

// Provider wraps the metrics and exposes the scrape handler.
type Provider struct {
	Metrics *Metrics
}

// NewProvider initializes the Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{Metrics: initMetrics()}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initDownloadMetrics(m)
	initLifecycleMetrics(m)
	return m
}

func initDownloadMetrics(m *Metrics) {
	m.DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdf_relay_downloads_total",
		Help: "Total download requests by outcome",
	}, []string{"outcome"})

	m.DownloadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pdf_relay_download_bytes",
		Help:    "Size of successfully relayed documents in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	m.DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pdf_relay_download_duration_seconds",
		Help:    "Time from accepting a request to finishing the upstream fetch",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
	})
}

func initLifecycleMetrics(m *Metrics) {
	m.ActiveDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdf_relay_active_downloads",
		Help: "Downloads currently in flight",
	})
}

// RecordDownload records the outcome of one download request.
func (p *Provider) RecordDownload(outcome string, bytes int64, duration time.Duration) {
	p.Metrics.DownloadsTotal.WithLabelValues(outcome).Inc()
	p.Metrics.DownloadDuration.Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		p.Metrics.DownloadBytes.Observe(float64(bytes))
	}
}

// DownloadStarted marks a download as in flight.
func (p *Provider) DownloadStarted() {
	p.Metrics.ActiveDownloads.Inc()
}

// DownloadFinished marks a download as no longer in flight.
func (p *Provider) DownloadFinished() {
	p.Metrics.ActiveDownloads.Dec()
}
