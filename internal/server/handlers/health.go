package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/divvun/divvun-worker-grammar/internal/checker"
	"github.com/divvun/divvun-worker-grammar/internal/server/responses"
	"github.com/divvun/divvun-worker-grammar/internal/version"
)

// checkContext derives the deadline context for a single pipeline run.
func checkContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}

// NewHealthHandler returns the /health handler. It exercises the live pipeline
// with an empty text so a broken bundle surfaces as 503 instead of a silent 200.
func NewHealthHandler(h *ProcessHandlers, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := h.provider.Current()
		pipeline := checker.New(b, checker.Options{Encoding: checker.EncodingUTF16})

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		resp := responses.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version.Version,
			Uptime:    time.Since(startTime).Seconds(),
			Bundle:    b.Name(),
			Language:  b.Language(),
		}
		if _, err := pipeline.Check(ctx, ""); err != nil {
			status = http.StatusServiceUnavailable
			resp.Status = "degraded"
		}

		_ = writeJSON(w, status, resp)
	}
}
