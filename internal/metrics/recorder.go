// Package metrics provides observability hooks for build and rebuild
// activity. Components receive a Recorder through dependency injection and
// default to NoopRecorder, so metrics can be activated by swapping the
// implementation without touching call sites.
package metrics

import "time"

// ResultLabel enumerates page render results for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultError   ResultLabel = "error"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	IncPageResult(result ResultLabel)
	IncRebuild()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) IncPageResult(ResultLabel)                  {}
func (NoopRecorder) IncRebuild()                                {}
