package handlers

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	"github.com/divvun/divvun-worker-grammar/internal/checker"
	"github.com/divvun/divvun-worker-grammar/internal/errors"
	"github.com/divvun/divvun-worker-grammar/internal/events"
	"github.com/divvun/divvun-worker-grammar/internal/history"
	"github.com/divvun/divvun-worker-grammar/internal/logfields"
	"github.com/divvun/divvun-worker-grammar/internal/metrics"
	"github.com/divvun/divvun-worker-grammar/internal/server/middleware"
	"github.com/divvun/divvun-worker-grammar/internal/server/responses"
)

//go:embed index.html
var indexPage string

// ProcessInput is the request body of a grammar check.
type ProcessInput struct {
	Text string `json:"text"`
	// Ignore is a pointer so a present-but-empty list still takes precedence
	// over the deprecated ignore_tags alias.
	Ignore     *[]string `json:"ignore,omitempty"`
	IgnoreTags []string  `json:"ignore_tags,omitempty"`
}

// ProcessOptions configure the process handlers.
type ProcessOptions struct {
	// DefaultLanguage overrides the bundle language for message localization.
	DefaultLanguage string
	MaxTextLen      int
	CheckTimeout    time.Duration
	Recorder        metrics.Recorder
	History         *history.Store
	Events          *events.Publisher
}

// ProcessHandlers serves the check, preferences, index page and health endpoints.
type ProcessHandlers struct {
	provider     *bundle.Provider
	opts         ProcessOptions
	errorAdapter *errors.HTTPErrorAdapter
}

// NewProcessHandlers creates the handlers for the main listener.
func NewProcessHandlers(provider *bundle.Provider, opts ProcessOptions) *ProcessHandlers {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.MaxTextLen <= 0 {
		opts.MaxTextLen = 32 * 1024
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 30 * time.Second
	}
	return &ProcessHandlers{
		provider:     provider,
		opts:         opts,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// defaultLanguage resolves the localization fallback language.
func (h *ProcessHandlers) defaultLanguage() string {
	if h.opts.DefaultLanguage != "" {
		return h.opts.DefaultLanguage
	}
	return h.provider.Current().Language()
}

// HandleRoot dispatches the root route: POST checks text, GET serves the demo page.
func (h *ProcessHandlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.HandleProcess(w, r)
	case http.MethodGet:
		h.HandleIndex(w, r)
	default:
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_methods", "GET, POST").
			Build()
		h.errorAdapter.WriteErrorResponse(w, err)
	}
}

// HandleProcess runs a grammar check over the posted text.
func (h *ProcessHandlers) HandleProcess(w http.ResponseWriter, r *http.Request) {
	encoding, err := checker.ParseEncoding(r.URL.Query().Get("encoding"))
	if err != nil {
		derr := errors.ValidationError("unsupported encoding").
			WithContext("encoding", r.URL.Query().Get("encoding")).
			Build()
		h.errorAdapter.WriteErrorResponse(w, derr)
		return
	}

	var input ProcessInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		derr := errors.ValidationError("invalid JSON payload").
			WithContext("content_type", r.Header.Get("Content-Type")).
			WithContext("error", err.Error()).
			Build()
		h.errorAdapter.WriteErrorResponse(w, derr)
		return
	}

	text := strings.TrimSpace(input.Text)
	if len(text) > h.opts.MaxTextLen {
		derr := errors.ValidationError("text too long").
			WithContext("text_len", len(text)).
			WithContext("max_text_len", h.opts.MaxTextLen).
			Build()
		h.errorAdapter.WriteErrorResponse(w, derr)
		return
	}

	// Prefer 'ignore' over the deprecated 'ignore_tags'
	ignore := input.IgnoreTags
	if input.Ignore != nil {
		ignore = *input.Ignore
	}

	locales := localesFromRequest(r, h.defaultLanguage())

	result, derr := h.check(r, text, checker.Options{
		Locales:  locales,
		Encoding: encoding,
		Ignore:   ignore,
	})
	if derr != nil {
		h.errorAdapter.WriteErrorResponse(w, derr)
		return
	}

	resp := responses.ProcessResponse{Text: result.Text, Errs: result.Errs}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, errors.WrapError(err, errors.CategoryInternal, "failed to write process response").Build())
	}
}

// check runs the pipeline and records metrics, history and events.
func (h *ProcessHandlers) check(r *http.Request, text string, opts checker.Options) (checker.Result, *errors.WorkerError) {
	b := h.provider.Current()
	pipeline := checker.New(b, opts)

	ctx, cancel := checkContext(r, h.opts.CheckTimeout)
	defer cancel()

	h.opts.Recorder.IncActiveRequests()
	defer h.opts.Recorder.DecActiveRequests()

	start := time.Now()
	result, err := pipeline.Check(ctx, text)
	duration := time.Since(start)

	h.opts.Recorder.ObserveCheckDuration(duration)
	if err != nil {
		if ctx.Err() != nil {
			h.opts.Recorder.IncCheckOutcome(metrics.OutcomeCanceled)
		} else {
			h.opts.Recorder.IncCheckOutcome(metrics.OutcomeFailed)
		}
		return checker.Result{}, errors.PipelineError(err)
	}

	h.opts.Recorder.IncCheckOutcome(metrics.OutcomeSuccess)
	h.opts.Recorder.AddErrorsReported(len(result.Errs))

	id := middleware.RequestIDFrom(r.Context())
	if id == "" {
		id = uuid.NewString()
	}

	if h.opts.History != nil {
		if err := h.opts.History.Append(r.Context(), history.Check{
			ID:         id,
			Language:   b.Language(),
			TextLen:    len(text),
			ErrCount:   len(result.Errs),
			DurationMS: float64(duration.Microseconds()) / 1000.0,
		}); err != nil {
			slog.Warn("Failed to record check history", logfields.Error(err))
		}
	}

	h.opts.Events.Publish(events.CheckEvent{
		ID:         id,
		Language:   b.Language(),
		TextLen:    len(text),
		ErrCount:   len(result.Errs),
		DurationMS: float64(duration.Microseconds()) / 1000.0,
	})

	slog.Debug("Check completed",
		logfields.RequestID(id),
		logfields.Language(b.Language()),
		logfields.TextLen(len(text)),
		logfields.ErrCount(len(result.Errs)),
		logfields.DurationMS(float64(duration.Microseconds())/1000.0))

	return result, nil
}

// HandleIndex serves the embedded demo page.
func (h *ProcessHandlers) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	lang := h.defaultLanguage()
	if lang == "" {
		lang = "unknown"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(strings.ReplaceAll(indexPage, "%LANG%", lang)))
}

// HandlePreferences returns the ignorable error tags with localized titles.
func (h *ProcessHandlers) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	locales := localesFromRequest(r, h.defaultLanguage())
	prefs := h.provider.Current().ErrorPreferences(locales)

	resp := responses.PreferencesResponse{ErrorTags: prefs}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, errors.WrapError(err, errors.CategoryInternal, "failed to write preferences response").Build())
	}
}
