package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/divvun/divvun-worker-grammar/internal/logfields"
)

// Pruner wraps a gocron scheduler that trims the history store daily.
type Pruner struct {
	scheduler gocron.Scheduler
	store     *Store
	retention time.Duration
}

// NewPruner creates a pruner keeping retention worth of history.
func NewPruner(store *Store, retention time.Duration) (*Pruner, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	p := &Pruner{scheduler: s, store: store, retention: retention}
	_, err = s.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(p.prune),
		gocron.WithName("history-prune"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule prune job: %w", err)
	}
	return p, nil
}

// Start begins the schedule.
func (p *Pruner) Start(_ context.Context) {
	slog.Info("Starting history pruner", "retention", p.retention)
	p.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (p *Pruner) Stop(_ context.Context) error {
	slog.Info("Stopping history pruner")
	return p.scheduler.Shutdown()
}

func (p *Pruner) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := p.store.Prune(ctx, time.Now().Add(-p.retention))
	if err != nil {
		slog.Error("History prune failed", logfields.Error(err))
		return
	}
	if n > 0 {
		slog.Info("History pruned", "deleted", n)
	}
}
