package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/choplin/projectdb/internal/model"
)

// Watch drops the cached handle of any project whose file is removed or
// renamed behind the catalog's back. It blocks until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := c.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	c.watchLoop(ctx, watcher)
	return nil
}

func (c *Catalog) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w: %w", c.root, model.ErrStorage, err)
	}
	if err := watcher.Add(c.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w: %w", c.root, model.ErrStorage, err)
	}
	c.logger.Debug("watching project directory", "dir", c.root)
	return watcher, nil
}

func (c *Catalog) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, ok := trimSuffix(filepath.Base(event.Name))
			if !ok {
				continue
			}
			if c.dropIfStale(name) {
				c.logger.Info("project file removed, handle dropped", "project", name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("project watcher error", "error", err)
		}
	}
}

// dropIfStale evicts name if its cached handle no longer matches the file on
// disk. A file renamed over the project counts as a removal.
func (c *Catalog) dropIfStale(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.cache[name]
	if !ok || s.IsCurrent() {
		return false
	}
	return c.evictLocked(name)
}
