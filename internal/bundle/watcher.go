package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/divvun/divvun-worker-grammar/internal/logfields"
)

// Watcher monitors the bundle file and reloads it on change. A failed reload
// keeps the previous bundle active.
type Watcher struct {
	bundlePath   string
	provider     *Provider
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
	onReload     func(*Bundle) // optional hook, called after a successful swap
}

// NewWatcher creates a watcher for the bundle backing the provider.
func NewWatcher(bundlePath string, provider *Provider) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(bundlePath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve bundle path: %w", err)
	}

	return &Watcher{
		bundlePath:   absPath,
		provider:     provider,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // debounce rapid file changes
	}, nil
}

// OnReload registers a hook invoked after each successful reload.
func (w *Watcher) OnReload(fn func(*Bundle)) { w.onReload = fn }

// Start begins monitoring the bundle file.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Watch the directory containing the bundle (more reliable than watching the file directly)
	bundleDir := filepath.Dir(w.bundlePath)
	if err := w.watcher.Add(bundleDir); err != nil {
		return fmt.Errorf("failed to watch bundle directory %s: %w", bundleDir, err)
	}

	slog.Info("Starting bundle watcher", "bundle_path", w.bundlePath)

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)

	return nil
}

// Stop stops the bundle watcher.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	slog.Info("Stopping bundle watcher")
	close(w.stopChan)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}
	return nil
}

// watchLoop monitors file system events.
func (w *Watcher) watchLoop(ctx context.Context) {
	bundleFile := filepath.Base(w.bundlePath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != bundleFile {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write:
				slog.Debug("Bundle write detected", "file", event.Name)
				w.triggerReload()
			case event.Op&fsnotify.Create == fsnotify.Create:
				slog.Debug("Bundle create detected", "file", event.Name)
				w.triggerReload()
			case event.Op&fsnotify.Rename == fsnotify.Rename:
				slog.Debug("Bundle rename detected", "file", event.Name)
				w.triggerReload()
			case event.Op&fsnotify.Remove == fsnotify.Remove:
				slog.Warn("Bundle file removed", "file", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Bundle watcher error", logfields.Error(err))
		}
	}
}

// reloadLoop handles debounced bundle reloads.
func (w *Watcher) reloadLoop(ctx context.Context) {
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case <-w.stopChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case <-w.reloadChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(w.debounceTime, func() {
				if err := w.performReload(); err != nil {
					slog.Error("Failed to reload bundle", logfields.Error(err))
				}
			})
		}
	}
}

// triggerReload triggers a debounced bundle reload.
func (w *Watcher) triggerReload() {
	select {
	case w.reloadChan <- struct{}{}:
	default: // reload already pending
	}
}

// performReload loads the bundle from disk and swaps it in.
func (w *Watcher) performReload() error {
	slog.Info("Reloading grammar bundle", "bundle_path", w.bundlePath)

	newBundle, err := Load(w.bundlePath)
	if err != nil {
		return fmt.Errorf("failed to load new bundle: %w", err)
	}

	w.provider.Swap(newBundle)
	if w.onReload != nil {
		w.onReload(newBundle)
	}

	slog.Info("Grammar bundle reloaded",
		logfields.Bundle(newBundle.Name()),
		logfields.Language(newBundle.Language()),
		"rules", len(newBundle.Rules()))
	return nil
}
