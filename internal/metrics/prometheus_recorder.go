package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	uploadDuration *prom.HistogramVec
	uploadResults  *prom.CounterVec
	sourceMaps     *prom.CounterVec
	publishOutcome *prom.CounterVec
	lastPublish    prom.Gauge
}

// NewPrometheusRecorder constructs and registers the publisher metrics on reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		uploadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "releasepub",
			Name:      "upload_duration_seconds",
			Help:      "Duration of a multi-file source map upload per target",
			Buckets:   prom.DefBuckets,
		}, []string{"target"}),
		uploadResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "releasepub",
			Name:      "upload_results_total",
			Help:      "Upload results by target and outcome",
		}, []string{"target", "result"}),
		sourceMaps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "releasepub",
			Name:      "source_maps_uploaded_total",
			Help:      "Source map files accepted by the backend",
		}, []string{"target"}),
		publishOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "releasepub",
			Name:      "publish_outcomes_total",
			Help:      "Build-finished events by publishing outcome",
		}, []string{"outcome"}),
		lastPublish: prom.NewGauge(prom.GaugeOpts{
			Namespace: "releasepub",
			Name:      "last_publish_timestamp_seconds",
			Help:      "Unix time of the last successful publish",
		}),
	}
	reg.MustRegister(pr.uploadDuration, pr.uploadResults, pr.sourceMaps, pr.publishOutcome, pr.lastPublish)
	return pr
}

// Registry exposes the underlying registry for gathering.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveUploadDuration(target string, d time.Duration) {
	if p == nil {
		return
	}
	p.uploadDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncUploadResult(target string, result ResultLabel) {
	if p == nil {
		return
	}
	p.uploadResults.WithLabelValues(target, string(result)).Inc()
}

func (p *PrometheusRecorder) AddSourceMaps(target string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.sourceMaps.WithLabelValues(target).Add(float64(n))
}

func (p *PrometheusRecorder) IncPublishOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.publishOutcome.WithLabelValues(string(outcome)).Inc()
	if outcome == OutcomePublished {
		p.lastPublish.SetToCurrentTime()
	}
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
