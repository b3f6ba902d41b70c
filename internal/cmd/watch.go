package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jmgilman/canvas/internal/slogger"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 100 * time.Millisecond

// watchFile calls onChange with the contents of path whenever they differ
// from last, until ctx is done or onChange returns an error. The parent
// directory is watched so editors that save by renaming a new file over the
// old one keep being followed.
func watchFile(ctx context.Context, path, last string, onChange func(contents string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // nothing to flush

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	settle := time.NewTimer(watchDebounce)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			settle.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slogger.L(ctx).Warn("file watcher error", "path", path, "error", err)

		case <-settle.C:
			data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided path is intended
			if err != nil {
				slogger.L(ctx).Warn("failed to read source", "path", path, "error", err)
				continue
			}
			if string(data) == last {
				continue
			}
			last = string(data)
			if err := onChange(last); err != nil {
				return err
			}
		}
	}
}
