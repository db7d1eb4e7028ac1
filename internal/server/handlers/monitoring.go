package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	"github.com/divvun/divvun-worker-grammar/internal/errors"
	"github.com/divvun/divvun-worker-grammar/internal/history"
	"github.com/divvun/divvun-worker-grammar/internal/server/responses"
	"github.com/divvun/divvun-worker-grammar/internal/version"
)

// MonitoringHandlers serves the admin API: status and history statistics.
type MonitoringHandlers struct {
	provider     *bundle.Provider
	history      *history.Store
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates the admin handlers. hist may be nil when
// check history is disabled.
func NewMonitoringHandlers(provider *bundle.Provider, hist *history.Store, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		provider:     provider,
		history:      hist,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleStatus reports service and bundle information.
func (m *MonitoringHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	b := m.provider.Current()
	resp := responses.StatusResponse{
		Status:    "running",
		Version:   version.Version,
		StartTime: m.startTime.UTC(),
		Uptime:    time.Since(m.startTime).Seconds(),
		Bundle: responses.BundleInfo{
			Name:     b.Name(),
			Language: b.Language(),
			Version:  b.Version(),
			Rules:    len(b.Rules()),
			Locales:  b.Locales(),
		},
		Timestamp: time.Now().UTC(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		m.errorAdapter.WriteErrorResponse(w, errors.WrapError(err, errors.CategoryInternal, "failed to write status response").Build())
	}
}

// HandleHistoryStats reports aggregate check statistics from the history store.
func (m *MonitoringHandlers) HandleHistoryStats(w http.ResponseWriter, r *http.Request) {
	if m.history == nil {
		err := errors.ValidationError("check history is disabled").Build()
		m.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	stats, err := m.history.GetStats(r.Context())
	if err != nil {
		m.errorAdapter.WriteErrorResponse(w, errors.StorageError("read history statistics", err))
		return
	}

	if err := writeJSONPretty(w, r, http.StatusOK, stats); err != nil {
		m.errorAdapter.WriteErrorResponse(w, errors.WrapError(err, errors.CategoryInternal, "failed to write history stats").Build())
	}
}
