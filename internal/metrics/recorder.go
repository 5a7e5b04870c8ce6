package metrics

import "time"

// ResultLabel enumerates per-target upload results.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// OutcomeLabel enumerates the final status of a build-finished event.
type OutcomeLabel string

const (
	OutcomePublished OutcomeLabel = "published"
	OutcomeFailed    OutcomeLabel = "failed"
	OutcomeSkipped   OutcomeLabel = "skipped"
)

// Recorder defines observability hooks for publishing. Implementations may
// forward to Prometheus or anything else.
type Recorder interface {
	ObserveUploadDuration(target string, d time.Duration)
	IncUploadResult(target string, result ResultLabel)
	AddSourceMaps(target string, n int)
	IncPublishOutcome(outcome OutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveUploadDuration(string, time.Duration) {}
func (NoopRecorder) IncUploadResult(string, ResultLabel)         {}
func (NoopRecorder) AddSourceMaps(string, int)                   {}
func (NoopRecorder) IncPublishOutcome(OutcomeLabel)              {}
