package scenario

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/katalvlaran/astarviz/grid"
)

// Watch calls onChange with a freshly loaded grid every time path is written,
// created or renamed into place. Load failures are passed as err with a nil
// grid. Watch blocks until ctx ends and returns nil, or returns the watcher's
// setup error.
//
// The parent directory is watched rather than the file, so editors that save
// by renaming a temporary file are picked up.
func Watch(ctx context.Context, path string, onChange func(*grid.Grid, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scenario: watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("scenario: watching %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			// Rename is reported for the old name, i.e. when path moves away.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			onChange(Load(abs))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("scenario: watcher: %w", err))
		}
	}
}
