// Package httpserver wires the worker's HTTP listeners: the public check API
// and an optional admin listener for metrics and status.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	"github.com/divvun/divvun-worker-grammar/internal/config"
	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
	"github.com/divvun/divvun-worker-grammar/internal/metrics"
	"github.com/divvun/divvun-worker-grammar/internal/ratelimit"
	handlers "github.com/divvun/divvun-worker-grammar/internal/server/handlers"
	smw "github.com/divvun/divvun-worker-grammar/internal/server/middleware"
)

// Server manages the public and admin HTTP endpoints.
type Server struct {
	apiServer    *http.Server
	adminServer  *http.Server
	cfg          *config.Config
	opts         Options
	errorAdapter *derrors.HTTPErrorAdapter
	startTime    time.Time

	// Handler modules
	processHandlers    *handlers.ProcessHandlers
	monitoringHandlers *handlers.MonitoringHandlers
	healthHandler      http.HandlerFunc

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, provider *bundle.Provider, opts Options) *Server {
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
		startTime:    time.Now(),
	}

	// Initialize handler modules
	s.processHandlers = handlers.NewProcessHandlers(provider, handlers.ProcessOptions{
		DefaultLanguage: opts.DefaultLanguage,
		MaxTextLen:      cfg.Limits.MaxTextLen,
		CheckTimeout:    cfg.Limits.RequestTimeout,
		Recorder:        opts.Recorder,
		History:         opts.History,
		Events:          opts.Events,
	})
	s.monitoringHandlers = handlers.NewMonitoringHandlers(provider, opts.History, s.startTime)
	s.healthHandler = handlers.NewHealthHandler(s.processHandlers, s.startTime)

	// Initialize middleware chain
	s.mchain = smw.Chain(slog.Default(), s.errorAdapter)

	return s
}

// Start binds all required ports up front and then launches the servers.
func (s *Server) Start(ctx context.Context) error {
	// Pre-bind so startup fails fast with aggregate errors instead of logging
	// independent 'address already in use' lines after partial initialization.
	type preBind struct {
		name string
		addr string
		ln   net.Listener
	}
	binds := []preBind{
		{name: "api", addr: fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)},
	}
	if s.cfg.Server.AdminPort != 0 {
		binds = append(binds, preBind{
			name: "admin",
			addr: fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.AdminPort),
		})
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		ln, err := lc.Listen(ctx, "tcp", binds[i].addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s listener %s: %w", binds[i].name, binds[i].addr, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.startAPIServer(binds[0].ln)
	if len(binds) > 1 {
		s.startAdminServer(binds[1].ln)
		slog.Info("HTTP servers started",
			slog.String("api_addr", binds[0].addr),
			slog.String("admin_addr", binds[1].addr))
	} else {
		slog.Info("HTTP server started", slog.String("api_addr", binds[0].addr))
	}
	return nil
}

// recordRejection counts rate-limited requests in the check outcome metric.
func (s *Server) recordRejection(*http.Request) {
	if s.opts.Recorder != nil {
		s.opts.Recorder.IncCheckOutcome(metrics.OutcomeRejected)
	}
}

// Handler returns the public API handler with the full middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	var check http.Handler = http.HandlerFunc(s.processHandlers.HandleRoot)
	if s.opts.RateLimitStore != nil {
		check = ratelimit.Middleware(ratelimit.Options{
			Store:               s.opts.RateLimitStore,
			Stats:               s.opts.RateLimitStats,
			TrustXForwardedFor:  s.opts.TrustXForwardedFor,
			AddRateLimitHeaders: true,
			OnReject:            s.recordRejection,
		})(check)
	}
	// exact root match; unknown paths fall through to the mux 404
	mux.Handle("/{$}", check)
	mux.HandleFunc("/preferences", s.processHandlers.HandlePreferences)
	mux.HandleFunc("/health", s.healthHandler)

	return s.mchain(mux)
}

// AdminHandler returns the admin API handler: metrics, status and history stats.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.PrometheusHandler != nil {
		mux.Handle("/metrics", s.opts.PrometheusHandler)
	}
	mux.HandleFunc("/api/status", s.monitoringHandlers.HandleStatus)
	mux.HandleFunc("/api/history/stats", s.monitoringHandlers.HandleHistoryStats)

	return s.mchain(mux)
}

func (s *Server) startAPIServer(ln net.Listener) {
	s.apiServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.serveOn("api", s.apiServer, ln)
}

func (s *Server) startAdminServer(ln net.Listener) {
	s.adminServer = &http.Server{
		Handler:           s.AdminHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.serveOn("admin", s.adminServer, ln)
}

// serveOn launches an http.Server on a pre-bound listener. It standardizes
// goroutine startup and error logging across the two listeners.
func (s *Server) serveOn(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
}

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	slog.Info("HTTP servers stopped")
	return nil
}
