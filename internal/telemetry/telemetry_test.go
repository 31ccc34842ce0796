package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/pdf-relay/internal/telemetry"
)

// providerOnce ensures we only create one Provider per test run to avoid
// duplicate Prometheus metric registration errors from promauto's global registry
var (
	testProvider *telemetry.Provider
	providerOnce sync.Once
)

func getTestProvider(t *testing.T) *telemetry.Provider {
	t.Helper()
	providerOnce.Do(func() {
		testProvider = telemetry.NewProvider()
	})
	return testProvider
}

func TestNewProvider(t *testing.T) {
	provider := getTestProvider(t)
	if provider == nil {
		t.Fatal("expected non-nil provider")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
	if provider.Handler() == nil {
		t.Error("expected non-nil scrape handler")
	}
}

func TestRecordDownload(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.RecordDownload(telemetry.OutcomeSuccess, 1234, 150*time.Millisecond)
	provider.RecordDownload(telemetry.OutcomeUpstreamStatus, 0, 50*time.Millisecond)
	provider.RecordDownload(telemetry.OutcomeSizeLimit, 0, 80*time.Millisecond)
	provider.RecordDownload(telemetry.OutcomeTransport, 0, 30*time.Millisecond)
}

func TestActiveDownloads(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.DownloadStarted()
	provider.DownloadFinished()
}
