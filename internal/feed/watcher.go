package feed

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher turns filesystem events on the feed file into poll wakeups.
//
// It is a supplement to the ingestion loop's ticker, not a replacement:
// a wakeup only brings the next poll forward. The parent directory is
// watched because the feed file may not exist yet and may be replaced
// wholesale by the producer.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	wakeups chan struct{}
}

// NewWatcher creates a watcher for the given feed path. The parent
// directory must exist.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:    path,
		watcher: fsw,
		wakeups: make(chan struct{}, 1),
	}, nil
}

// Wakeups returns the channel that receives at most one pending wakeup.
func (w *Watcher) Wakeups() <-chan struct{} {
	return w.wakeups
}

// Run forwards relevant events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce: a full wakeup slot already guarantees a poll.
			select {
			case w.wakeups <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debug("watch error", "error", err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
