package curriculum

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"schooltutor/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a curriculum file into the store whenever it changes on
// disk. A file that fails to parse leaves the current snapshot in place.
type Watcher struct {
	source  FileSource
	store   *Store
	log     *logger.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	reloads int
}

func NewWatcher(source FileSource, store *Store, log *logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors often replace the file via rename.
	if err := fw.Add(filepath.Dir(source.Path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", source.Path, err)
	}

	return &Watcher{source: source, store: store, log: log, watcher: fw}, nil
}

// Run blocks until ctx is done or the underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	target := filepath.Clean(w.source.Path)
	w.log.Info("Watching curriculum file", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("Curriculum watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	data, err := w.source.Load(ctx)
	if err != nil {
		w.log.Warn("Keeping current curriculum, reload failed", "path", w.source.Path, "error", err)
		return
	}
	w.store.Replace(data)

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	w.log.Info("Reloaded curriculum data", "path", w.source.Path, "standards", len(data), "reloads", w.Reloads())
}

// Reloads reports how many successful reloads have happened.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}
