package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RunFunc is one conversion pass
type RunFunc func(ctx context.Context) error

// Watcher re-runs a conversion whenever the input directory changes
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	run      RunFunc
	logger   *zap.Logger

	mu      sync.Mutex // protect against concurrent runs
	running bool
	runs    int
}

// New creates a new watcher over the files of dir matching pattern
func New(dir, pattern string, debounce time.Duration, run RunFunc, logger *zap.Logger) *Watcher {
	if pattern == "" {
		pattern = "*"
	}
	return &Watcher{
		dir:      dir,
		pattern:  pattern,
		debounce: debounce,
		run:      run,
		logger:   logger,
	}
}

// Start runs once, then watches until ctx is cancelled
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Info("Watcher started",
		zap.String("dir", w.dir),
		zap.String("pattern", w.pattern),
		zap.Duration("debounce", w.debounce))

	// Run initial conversion immediately
	w.runOnce(ctx)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Input changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			w.runOnce(ctx)
		}
	}
}

// Runs returns the number of completed conversion passes
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	matched, err := filepath.Match(w.pattern, filepath.Base(event.Name))
	return err == nil && matched
}

func (w *Watcher) runOnce(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Warn("Conversion already running, skipping")
		return
	}
	w.running = true
	w.mu.Unlock()

	start := time.Now()
	err := w.run(ctx)

	w.mu.Lock()
	w.running = false
	w.runs++
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("Conversion failed", zap.Error(err))
		return
	}
	w.logger.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)))
}
