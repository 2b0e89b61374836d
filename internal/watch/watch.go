// Package watch reloads configuration when the backing file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period required after the last file event
// before a reload fires. Editors typically emit bursts of writes.
const DefaultDebounce = 100 * time.Millisecond

// Watcher observes a single configuration file and invokes a reload
// callback after changes settle. A failing reload is logged and the
// previous configuration stays active.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// New returns a watcher for the given file path.
func New(path string, debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// watch the directory rather than the file: editors that rename a
	// temp file over the target would otherwise drop the watch
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &Watcher{
		watcher:  w,
		path:     path,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run processes file events until the context is cancelled, invoking
// onChange after each settled change. It blocks; run it in a goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func() error) {
	w.logger.Info().Str("path", w.path).Msg("config watcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("config watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.shouldProcess(event) {
				continue
			}
			w.trigger(func() {
				w.logger.Info().Str("op", event.Op.String()).Msg("config file changed")
				if err := onChange(); err != nil {
					w.logger.Error().Err(err).Msg("config reload failed")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("config watcher error")
		}
	}
}

// Close stops the watcher and cancels any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

// trigger resets the debounce timer; the callback fires only after a
// quiet period with no further events.
func (w *Watcher) trigger(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, callback)
}
