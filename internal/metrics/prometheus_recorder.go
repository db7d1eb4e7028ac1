package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	checkDuration  prom.Histogram
	checkOutcomes  *prom.CounterVec
	errorsReported prom.Counter
	activeRequests prom.Gauge
	bundleReloads  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.checkDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "divvun",
			Name:      "check_duration_seconds",
			Help:      "Duration of grammar check requests",
			Buckets:   prom.DefBuckets,
		})
		pr.checkOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "divvun",
			Name:      "check_outcomes_total",
			Help:      "Grammar check outcomes by final status",
		}, []string{"outcome"})
		pr.errorsReported = prom.NewCounter(prom.CounterOpts{
			Namespace: "divvun",
			Name:      "errors_reported_total",
			Help:      "Total grammar errors reported across all checks",
		})
		pr.activeRequests = prom.NewGauge(prom.GaugeOpts{
			Namespace: "divvun",
			Name:      "active_requests",
			Help:      "Grammar check requests currently being processed",
		})
		pr.bundleReloads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "divvun",
			Name:      "bundle_reloads_total",
			Help:      "Grammar bundle reloads by result",
		}, []string{"result"})
		reg.MustRegister(pr.checkDuration, pr.checkOutcomes, pr.errorsReported, pr.activeRequests, pr.bundleReloads)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveCheckDuration(d time.Duration) {
	if p == nil || p.checkDuration == nil {
		return
	}
	p.checkDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCheckOutcome(outcome OutcomeLabel) {
	if p == nil || p.checkOutcomes == nil {
		return
	}
	p.checkOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddErrorsReported(n int) {
	if p == nil || p.errorsReported == nil || n <= 0 {
		return
	}
	p.errorsReported.Add(float64(n))
}

func (p *PrometheusRecorder) IncActiveRequests() {
	if p == nil || p.activeRequests == nil {
		return
	}
	p.activeRequests.Inc()
}

func (p *PrometheusRecorder) DecActiveRequests() {
	if p == nil || p.activeRequests == nil {
		return
	}
	p.activeRequests.Dec()
}

func (p *PrometheusRecorder) IncBundleReload(success bool) {
	if p == nil || p.bundleReloads == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.bundleReloads.WithLabelValues(res).Inc()
}
