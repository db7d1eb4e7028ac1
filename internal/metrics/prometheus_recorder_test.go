package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorderRegisters(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveCheckDuration(50 * time.Millisecond)
	pr.IncCheckOutcome(OutcomeSuccess)
	pr.AddErrorsReported(3)
	pr.IncActiveRequests()
	pr.DecActiveRequests()
	pr.IncBundleReload(true)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestNilRecorderSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveCheckDuration(time.Second)
	pr.IncCheckOutcome(OutcomeFailed)
	pr.AddErrorsReported(1)
	pr.IncActiveRequests()
	pr.DecActiveRequests()
	pr.IncBundleReload(false)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveCheckDuration(time.Second)
	r.IncCheckOutcome(OutcomeCanceled)
}
