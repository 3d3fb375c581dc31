package workspace

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when the active note changes. path is empty
// when the active note was removed.
type ChangeCallback func(path string)

// Track watches the vault and makes the most recently created or written
// note active, until ctx is cancelled. New directories are added to the
// watch list; removing or renaming the active note clears it.
func Track(ctx context.Context, v *Vault, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := v.store.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("tracker: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("tracker: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if isHidden(root, ev.Name) {
						continue
					}
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("tracker: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") || isHidden(root, ev.Name) {
				continue
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				prev, _ := v.ActiveFile()
				v.setActive(rel)
				if prev != rel {
					logger.Debug("tracker: active note", slog.String("path", rel))
					if cb != nil {
						cb(rel)
					}
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				prev, _ := v.ActiveFile()
				v.clearActive(rel)
				if prev == rel {
					logger.Debug("tracker: active note gone", slog.String("path", rel))
					if cb != nil {
						cb("")
					}
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("tracker: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// isHidden reports whether any element of path below root starts with a dot.
func isHidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
