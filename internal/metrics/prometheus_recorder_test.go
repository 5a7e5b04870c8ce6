package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, pr *PrometheusRecorder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "releasepub.prom")
	require.NoError(t, pr.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveUploadDuration("server", 150*time.Millisecond)
	pr.IncUploadResult("server", ResultSuccess)
	pr.IncUploadResult("client", ResultFailed)
	pr.AddSourceMaps("server", 3)
	pr.AddSourceMaps("client", 0)
	pr.IncPublishOutcome(OutcomePublished)

	out := scrape(t, pr)
	assert.Contains(t, out, `releasepub_upload_results_total{result="success",target="server"} 1`)
	assert.Contains(t, out, `releasepub_upload_results_total{result="failed",target="client"} 1`)
	assert.Contains(t, out, `releasepub_source_maps_uploaded_total{target="server"} 3`)
	assert.NotContains(t, out, `releasepub_source_maps_uploaded_total{target="client"}`)
	assert.Contains(t, out, `releasepub_upload_duration_seconds_count{target="server"} 1`)
	assert.Contains(t, out, "releasepub_last_publish_timestamp_seconds")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorderSkippedOutcome(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncPublishOutcome(OutcomeSkipped)

	out := scrape(t, pr)
	assert.Contains(t, out, `releasepub_publish_outcomes_total{outcome="skipped"} 1`)
	assert.Contains(t, out, "releasepub_last_publish_timestamp_seconds 0")
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveUploadDuration("server", time.Second)
	pr.IncUploadResult("server", ResultSuccess)
	pr.AddSourceMaps("server", 1)
	pr.IncPublishOutcome(OutcomeFailed)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncPublishOutcome(OutcomePublished)
}
