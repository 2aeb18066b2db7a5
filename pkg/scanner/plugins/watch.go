package plugins

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// ReloadEvent is sent on the channel returned by Watch whenever the
// plugin directory changes on disk. It carries no payload: every scan
// already reloads rule packs from disk regardless of this watcher, so the
// event is purely informational, for a UI to show "plugins reloaded".
type ReloadEvent struct{}

// Watch starts an fsnotify watch on dir and emits a ReloadEvent on the
// returned channel for every write, create, remove, or rename observed,
// until ctx is cancelled. Nothing in this module calls Watch, including
// for the WatchPlugins setting; the Loader never depends on this watcher
// for correctness, since Load() always re-reads the directory from scratch.
func Watch(ctx context.Context, dir string, logger *slog.Logger) (<-chan ReloadEvent, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan ReloadEvent, 1)
	go func() {
		defer watcher.Close()
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				logger.Info("plugin directory changed", "path", ev.Name, "op", ev.Op.String())
				select {
				case events <- ReloadEvent{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("plugin directory watch error", "error", err)
			}
		}
	}()

	return events, nil
}
