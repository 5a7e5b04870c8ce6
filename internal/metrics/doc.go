// Package metrics records publishing metrics.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so nothing needs nil checks:
//
//	pub := publisher.New(uploaders, publisher.WithRecorder(metrics.NewPrometheusRecorder(nil)))
//
// The CLI is a short-lived process, so instead of serving /metrics it writes
// the registry to a textfile (monitoring.metrics.textfile) that a
// node-exporter textfile collector picks up.
package metrics
