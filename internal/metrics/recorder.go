// Package metrics defines observability hooks for the grammar worker.
// Implementations may forward to Prometheus; the no-op recorder keeps metrics
// optional at every call site.
package metrics

import "time"

// OutcomeLabel enumerates check result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeRejected OutcomeLabel = "rejected"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for check processing. All methods must
// be safe on the zero value so injection stays optional.
type Recorder interface {
	ObserveCheckDuration(d time.Duration)
	IncCheckOutcome(outcome OutcomeLabel)
	AddErrorsReported(n int)
	IncActiveRequests()
	DecActiveRequests()
	IncBundleReload(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCheckDuration(time.Duration) {}
func (NoopRecorder) IncCheckOutcome(OutcomeLabel)       {}
func (NoopRecorder) AddErrorsReported(int)              {}
func (NoopRecorder) IncActiveRequests()                 {}
func (NoopRecorder) DecActiveRequests()                 {}
func (NoopRecorder) IncBundleReload(bool)               {}
