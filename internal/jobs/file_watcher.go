package jobs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
)

// RunFileDeletionWatcher watches every configured root for Remove
// events and logs each one to file_deletion_log, filtered by
// WatchIgnoreGlobs. Unlike the cron/ticker jobs this runs continuously
// until ctx is cancelled, so the daemon starts it in its own goroutine
// rather than through Register.
func (j *Jobs) RunFileDeletionWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, root := range j.cfg.WatchRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if matchesAnyGlob(path, j.cfg.WatchIgnoreGlobs) {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				return nil
			}
			watchedDirs[path] = true
			return nil
		})
		if err != nil {
			logging.Scheduler("file_deletion_watcher: failed to watch %s: %v", root, err)
		}
	}

	pid := os.Getpid()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Remove == 0 {
				continue
			}
			if matchesAnyGlob(event.Name, j.cfg.WatchIgnoreGlobs) {
				continue
			}

			entryType := "file_deleted"
			if watchedDirs[event.Name] {
				entryType = "dir_deleted"
				delete(watchedDirs, event.Name)
				_ = watcher.Remove(event.Name)
			}

			_ = j.st.LogFileDeletion(store.FileDeletionLogEntry{
				Path:      event.Name,
				Filename:  filepath.Base(event.Name),
				EventType: entryType,
				PID:       pid,
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Scheduler("file_deletion_watcher: %v", err)
		}
	}
}

// matchesAnyGlob checks path against each glob two ways: the full path,
// for directory-shaped patterns like "*/node_modules/*", and the
// base name alone, for extension patterns like "*.pyc" that would
// never match a multi-segment path (filepath.Match's "*" never
// crosses a path separator).
func matchesAnyGlob(path string, globs []string) bool {
	base := filepath.Base(path)
	for _, g := range globs {
		if ok, _ := filepath.Match(g, path); ok {
			return true
		}
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	return false
}
