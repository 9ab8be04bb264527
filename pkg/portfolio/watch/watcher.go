package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

const (
	defaultDebounce = 300 * time.Millisecond
	defaultQuiet    = time.Second
)

// Watcher reports edits to the document file made by anything other than
// the service. It sits between the service and the downstream sink: writes
// the service announces are forwarded and open a quiet window in which
// filesystem events are attributed to that write.
type Watcher struct {
	path     string
	sink     portfolio.EventSink
	debounce time.Duration
	quiet    time.Duration

	mu        sync.Mutex
	lastWrite time.Time
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce coalesces bursts of filesystem events
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithQuietPeriod sets how long after a service write events are ignored
func WithQuietPeriod(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.quiet = d }
}

// NewWatcher watches path and notifies sink of changes
func NewWatcher(path string, sink portfolio.EventSink, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		sink:     sink,
		debounce: defaultDebounce,
		quiet:    defaultQuiet,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DocumentChanged forwards a service write to the sink
func (w *Watcher) DocumentChanged(ctx context.Context, change portfolio.Change) {
	w.mu.Lock()
	w.lastWrite = time.Now()
	w.mu.Unlock()
	w.sink.DocumentChanged(ctx, change)
}

func (w *Watcher) inQuietPeriod() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.lastWrite) < w.quiet
}

// Run watches until ctx is cancelled. The parent directory is watched so
// editors that save by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	slog.Info("Watching document for external edits", "path", w.path)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
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

		case <-pending:
			pending = nil
			if w.inQuietPeriod() {
				continue
			}
			slog.Info("Document changed on disk", "path", w.path)
			w.sink.DocumentChanged(ctx, portfolio.Change{Kind: portfolio.ChangeExternal})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", "err", err)
		}
	}
}
