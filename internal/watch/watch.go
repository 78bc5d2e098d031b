// Package watch re-runs an action whenever a file changes.
//
// The parent directory is watched rather than the file itself so that
// replacements by rename (the usual way pipelines publish a finished file)
// are seen as well as in-place writes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNotWatchable is returned for inputs that are not local files.
var ErrNotWatchable = errors.New("input cannot be watched")

// Options configures a Watcher.
type Options struct {
	Path     string                          // File to watch
	Debounce time.Duration                   // Quiet period before OnChange runs
	OnChange func(ctx context.Context) error // Called once per burst of changes
	Logger   *slog.Logger                    // nil discards
}

// Watcher calls OnChange after the watched file settles.
type Watcher struct {
	opts    Options
	target  string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// New creates a new Watcher with the given options.
func New(opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		opts:   opts,
		target: filepath.Clean(opts.Path),
		logger: logger.With("path", opts.Path),
	}
}

// Run blocks until ctx is cancelled or the watcher fails. Errors returned by
// OnChange are logged and watching continues, since the file may simply
// have been caught half-written.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer w.watcher.Close()

	return w.watch(ctx)
}

// setupWatcher initializes the fsnotify watcher on the file's directory.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(filepath.Dir(w.target)); err != nil {
		watcher.Close()
		return err
	}
	return nil
}

// watch waits for relevant events and runs OnChange once they go quiet.
func (w *Watcher) watch(ctx context.Context) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("input changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.opts.OnChange(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("re-run failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether event means the target now has new content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
