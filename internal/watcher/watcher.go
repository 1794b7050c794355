// Package watcher reloads the served dataset when the input worksheets
// change on disk, debouncing bursts of filesystem events.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// ReloadFunc is invoked after a debounced batch of input changes.
type ReloadFunc func(ctx context.Context, changed []string)

// InputWatcher watches the input directory for CSV changes and invokes the
// reload callback once per debounced batch.
type InputWatcher struct {
	inputDir string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	reload   ReloadFunc
	debounce time.Duration

	pendingMu sync.Mutex
	pending   map[string]struct{}
}

// New creates a watcher over inputDir. The directory is created if missing.
func New(inputDir string, reload ReloadFunc, logger *slog.Logger) (*InputWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &InputWatcher{
		inputDir: inputDir,
		watcher:  fsw,
		logger:   logger.With(slog.String("component", "input_watcher")),
		reload:   reload,
		debounce: defaultDebounce,
		pending:  make(map[string]struct{}),
	}, nil
}

// SetDebounce overrides the debounce interval. Intended for tests.
func (w *InputWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. It returns after registering the watch; event
// processing runs until ctx is cancelled or Stop is called.
func (w *InputWatcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.inputDir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.inputDir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Input watcher started",
		slog.String("input_dir", w.inputDir),
		slog.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher.
func (w *InputWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *InputWatcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *InputWatcher) handleFSEvent(event fsnotify.Event) {
	if strings.ToLower(filepath.Ext(event.Name)) != ".csv" {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending[filepath.Base(event.Name)] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("Input change detected",
		slog.String("file", filepath.Base(event.Name)),
		slog.String("op", event.Op.String()))
}

func (w *InputWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	w.logger.Info("Reloading after input change",
		slog.Any("files", changed))
	w.reload(ctx, changed)
}
