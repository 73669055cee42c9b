package definition

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher keeps a Registry in sync with a definitions file. Only the
// definitions that came from that file are replaced; a reload that fails
// to read or validate leaves the previous definitions in place.
type Watcher struct {
	path     string
	registry *Registry
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	onReload []func(names []string)

	fs        *fsnotify.Watcher
	closeOnce sync.Once
	done      chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets how long the watcher waits after the last change
// before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a Watcher for path. The file's directory is watched so
// that editors which replace the file on save are handled.
func NewWatcher(path string, registry *Registry, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     filepath.Clean(path),
		registry: registry,
		logger:   zap.NewNop(),
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("definition: create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(w.path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("definition: watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fs = fs
	return w, nil
}

// OnReload registers a callback run after each successful reload with the
// new definition names.
func (w *Watcher) OnReload(cb func(names []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, cb)
}

// Reload reads the file and replaces the registry contents.
func (w *Watcher) Reload() error {
	defs, err := ReadFile(w.path)
	if err != nil {
		w.logger.Error("definitions reload failed", zap.String("file", w.path), zap.Error(err))
		return err
	}
	if err := w.registry.ReplaceOrigin(w.path, defs...); err != nil {
		w.logger.Error("definitions rejected", zap.String("file", w.path), zap.Error(err))
		return err
	}

	names := w.registry.Names()
	w.logger.Info("definitions reloaded", zap.String("file", w.path), zap.Int("beans", len(names)))

	w.mu.Lock()
	callbacks := make([]func([]string), len(w.onReload))
	copy(callbacks, w.onReload)
	w.mu.Unlock()
	for _, cb := range callbacks {
		cb(names)
	}
	return nil
}

// Start processes file events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("definitions file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()),
			)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { _ = w.Reload() })

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("definitions watcher error", zap.Error(err))

		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases the underlying file watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
