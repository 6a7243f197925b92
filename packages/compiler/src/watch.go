package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for more changes before compiling.
const DefaultDebounce = 200 * time.Millisecond

// Watch compiles the project once and then again after every batch of
// changes to .ts, .html or tsconfig.json files under the project root.
// Changes closer together than debounce form one batch. Each compilation is
// reported to onResult. Watch returns nil once ctx is done.
func (c *Compiler) Watch(ctx context.Context, debounce time.Duration, onResult func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := c.watchTree(watcher, c.projectRoot); err != nil {
		return err
	}

	onResult(c.CompileProject(ctx))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := c.watchTree(watcher, event.Name); err != nil {
						slog.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !isProjectFile(event.Name) {
				continue
			}
			slog.Debug("project file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			onResult(c.CompileProject(ctx))
		}
	}
}

// watchTree adds dir and its subdirectories to watcher, skipping the
// directories template discovery skips.
func (c *Compiler) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(c.projectRoot, path)
		if c.skipDir(d.Name(), rel) || (rel != "." && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isProjectFile(path string) bool {
	if filepath.Base(path) == TsConfigName {
		return true
	}
	return strings.HasSuffix(path, ".html") || (strings.HasSuffix(path, ".ts") && !strings.HasSuffix(path, ".d.ts"))
}
