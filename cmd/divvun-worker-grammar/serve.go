package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	"github.com/divvun/divvun-worker-grammar/internal/config"
	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
	"github.com/divvun/divvun-worker-grammar/internal/events"
	"github.com/divvun/divvun-worker-grammar/internal/history"
	"github.com/divvun/divvun-worker-grammar/internal/logfields"
	"github.com/divvun/divvun-worker-grammar/internal/metrics"
	"github.com/divvun/divvun-worker-grammar/internal/ratelimit"
	"github.com/divvun/divvun-worker-grammar/internal/server/httpserver"
)

// runServe wires the whole service and blocks until a shutdown signal.
func runServe(cfg *config.Config) error {
	if cfg.Bundle.Path == "" {
		return derrors.ConfigRequired("bundle.path")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, err := bundle.Load(cfg.Bundle.Path)
	if err != nil {
		return derrors.BundleLoadError(cfg.Bundle.Path, err)
	}
	provider := bundle.NewProvider(b)
	slog.Info("Bundle loaded",
		logfields.Bundle(b.Name()),
		logfields.Language(b.Language()),
		slog.String("version", b.Version()),
		slog.Int("rules", len(b.Rules())))

	reg := metrics.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	opts := httpserver.Options{
		DefaultLanguage:   cfg.Bundle.Language,
		Recorder:          recorder,
		PrometheusHandler: metrics.HTTPHandler(reg),
	}

	if cfg.Bundle.Watch {
		watcher, werr := bundle.NewWatcher(cfg.Bundle.Path, provider)
		if werr != nil {
			return derrors.BundleLoadError(cfg.Bundle.Path, werr)
		}
		watcher.OnReload(func(nb *bundle.Bundle) {
			recorder.IncBundleReload(true)
			slog.Info("Bundle reloaded",
				logfields.Bundle(nb.Name()),
				slog.String("version", nb.Version()))
		})
		if err := watcher.Start(ctx); err != nil {
			return derrors.BundleLoadError(cfg.Bundle.Path, err)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := watcher.Stop(stopCtx); err != nil {
				slog.Warn("Failed to stop bundle watcher", logfields.Error(err))
			}
		}()
	}

	if cfg.RateLimit.Enabled {
		store := ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		store.StartJanitor(ctx)
		opts.RateLimitStore = store

		if cfg.RateLimit.RedisURL != "" {
			stats, serr := ratelimit.NewRedisStats(ctx, cfg.RateLimit.RedisURL)
			if serr != nil {
				return derrors.NetworkError(cfg.RateLimit.RedisURL, serr)
			}
			defer stats.Close()
			opts.RateLimitStats = stats
		} else {
			opts.RateLimitStats = ratelimit.NewMemoryStats()
		}
	}

	if cfg.History.Enabled {
		store, herr := history.NewStore(cfg.History.Path)
		if herr != nil {
			return derrors.StorageError("open history store", herr)
		}
		defer store.Close()
		opts.History = store

		retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
		pruner, perr := history.NewPruner(store, retention)
		if perr != nil {
			return derrors.StorageError("start history pruner", perr)
		}
		pruner.Start(ctx)
		defer func() {
			if err := pruner.Stop(ctx); err != nil {
				slog.Warn("Failed to stop history pruner", logfields.Error(err))
			}
		}()
	}

	if cfg.Events.Enabled {
		pub, eerr := events.NewPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if eerr != nil {
			return derrors.NetworkError(cfg.Events.NATSURL, eerr)
		}
		defer pub.Close()
		opts.Events = pub
	}

	srv := httpserver.New(cfg, provider, opts)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "HTTP server failed").Build()
		}
		slog.Info("Service started, waiting for shutdown signal...")
		<-ctx.Done()
	case <-ctx.Done():
	}
	slog.Info("Shutdown signal received, stopping service...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityError, "graceful shutdown failed").Build()
	}

	slog.Info("Service stopped")
	return nil
}
