package style

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dshills/tagstorm/internal/logging"
)

// DefaultDebounce is the delay used to coalesce rapid writes to a theme
// file. Editors often save with a remove/rename/write burst; one reload per
// burst is enough.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the result of reloading a watched theme file. A
// deleted file arrives as (nil, nil); a malformed file arrives as
// (nil, *ParseError).
type ReloadFunc func(theme *Theme, err error)

// Watcher watches a single theme file and reloads it on change. Reloads are
// debounced and delivered on the watcher's own goroutine.
type Watcher struct {
	path     string
	onReload ReloadFunc
	delay    time.Duration
	logger   *log.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	closed  bool

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the debounce delay.
func WithDebounce(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		if delay > 0 {
			w.delay = delay
		}
	}
}

// WithWatcherLogger overrides the watcher's logger.
func WithWatcherLogger(logger *log.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watch starts watching the theme file at path, invoking onReload after
// every debounced change. The file's directory is watched rather than the
// file itself so saves that replace the file (rename-over) keep working.
func Watch(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		onReload: onReload,
		delay:    DefaultDebounce,
		logger:   logging.Default(),
		watcher:  fsw,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched theme file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and drops any pending reload. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watch error",
				logging.FieldPath, w.path,
				logging.FieldError, err)
		}
	}
}

// handleEvent schedules a debounced reload when the watched file changes.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Reset(w.delay)
		return
	}
	w.pending = time.AfterFunc(w.delay, w.fireReload)
}

// fireReload loads the file and delivers the result.
func (w *Watcher) fireReload() {
	w.mu.Lock()
	w.pending = nil
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	theme, err := Load(w.path)
	if err != nil {
		w.logger.Warn("theme reload failed",
			logging.FieldPath, w.path,
			logging.FieldError, err)
	}
	w.onReload(theme, err)
}
