package pacdb

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reports changes to the local database directory (packages installed
// or removed behind our back). The returned channel receives at most one
// pending notification at a time and is closed when ctx is done.
func Watch(ctx context.Context, dbPath string, log logrus.FieldLogger) (<-chan struct{}, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Join(dbPath, "local")
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer close(changed)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.WithField("path", ev.Name).Debug("local database changed")
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("database watcher")
			}
		}
	}()

	return changed, nil
}
