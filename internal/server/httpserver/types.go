package httpserver

import (
	"net/http"

	"github.com/divvun/divvun-worker-grammar/internal/events"
	"github.com/divvun/divvun-worker-grammar/internal/history"
	"github.com/divvun/divvun-worker-grammar/internal/metrics"
	"github.com/divvun/divvun-worker-grammar/internal/ratelimit"
)

// Options configures runtime-specific server wiring.
type Options struct {
	// DefaultLanguage overrides the bundle manifest language for localization.
	DefaultLanguage string

	// Optional: check metrics recorder and its Prometheus scrape handler.
	Recorder          metrics.Recorder
	PrometheusHandler http.Handler

	// Optional: SQLite check history.
	History *history.Store

	// Optional: NATS check-event publisher.
	Events *events.Publisher

	// Optional: per-client rate limiting on the check endpoint.
	RateLimitStore     *ratelimit.Store
	RateLimitStats     ratelimit.StatsStore
	TrustXForwardedFor bool
}
