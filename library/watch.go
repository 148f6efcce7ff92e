package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is handed off.
const DefaultDebounce = 2 * time.Second

// WatchOptions configures Watch.
type WatchOptions struct {
	Supports func(path string) bool
	// Debounce delays handling until no event arrived for the file for this
	// long; zero means DefaultDebounce.
	Debounce time.Duration
	Exclude  []string
	Logger   *log.Logger
}

// Watch reports supported files created or rewritten under dir until ctx is
// done. Subdirectories, including ones created later, are watched too.
// handle is called from a single goroutine, one file at a time, in the order
// files settled.
func Watch(ctx context.Context, dir string, opts WatchOptions, handle func(path string)) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("watch")

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	supports := opts.Supports
	if supports == nil {
		supports = func(string) bool { return true }
	}
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, d := range opts.Exclude {
		excluded[Canonical(d)] = true
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	addTree := func(root string) {
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != root && (IsHidden(d.Name()) || excluded[Canonical(path)]) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				logger.Warn("cannot watch directory", "dir", path, "err", err)
			}
			return nil
		})
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	addTree(dir)
	logger.Info("watching", "dir", dir, "debounce", debounce)

	ready := make(chan string, 16)
	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	settle := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Reset(debounce)
			return
		}
		timers[path] = time.AfterFunc(debounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-ready:
			if _, err := os.Stat(path); err != nil {
				logger.Debug("file vanished", "path", path)
				continue
			}
			handle(path)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(ev.Name)
			if IsHidden(name) || IsPartial(name) {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if ev.Has(fsnotify.Create) && !excluded[Canonical(ev.Name)] {
					addTree(ev.Name)
				}
				continue
			}
			if supports(ev.Name) {
				logger.Debug("event", "op", ev.Op, "path", ev.Name)
				settle(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
