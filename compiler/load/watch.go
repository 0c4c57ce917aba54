package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before reporting
// a burst of file events.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls fn with each of paths whose schema changed on disk, until
// ctx is done. Paths are files or directories as accepted by Path.
// Events arriving within debounce of each other are reported once, in
// the order of paths.
func Watch(ctx context.Context, paths []string, debounce time.Duration, fn func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("load: creating watcher: %w", err)
	}
	defer w.Close()

	targets := make([]watchTarget, 0, len(paths))
	for _, path := range paths {
		t, err := newWatchTarget(path)
		if err != nil {
			return err
		}
		// Files are watched through their directory, so that editors
		// replacing the file by rename keep being observed.
		if err := w.Add(t.dir); err != nil {
			return fmt.Errorf("load: watching %s: %w", t.dir, err)
		}
		targets = append(targets, t)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		pending = make(map[int]bool)
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			for i, t := range targets {
				if t.match(ev.Name) {
					pending[i] = true
					fire = time.After(debounce)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("load: watching: %w", err)
		case <-fire:
			fire = nil
			for i, t := range targets {
				if pending[i] {
					fn(t.path)
				}
			}
			clear(pending)
		}
	}
}

type watchTarget struct {
	path string // as given to Watch
	dir  string // watched directory
	file string // cleaned file path, empty for directories
}

func newWatchTarget(path string) (watchTarget, error) {
	info, err := os.Stat(path)
	if err != nil {
		return watchTarget{}, fmt.Errorf("load: %w", err)
	}
	clean := filepath.Clean(path)
	if info.IsDir() {
		return watchTarget{path: path, dir: clean}, nil
	}
	return watchTarget{path: path, dir: filepath.Dir(clean), file: clean}, nil
}

func (t watchTarget) match(name string) bool {
	name = filepath.Clean(name)
	if t.file != "" {
		return name == t.file
	}
	return filepath.Dir(name) == t.dir && IsSchemaFile(name)
}
