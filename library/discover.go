// Package library finds convertible documents under files and directories
// given on the command line. Directories are walked breadth first; hidden
// entries and partial downloads are ignored. Watch follows a directory for
// books that arrive later.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// DefaultMaxDepth bounds directory recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 8

// Options configures Discover.
type Options struct {
	// Supports reports whether a file can be converted.
	Supports func(path string) bool
	// MaxDepth is the number of directory levels below each root to visit.
	// A negative value lists only the entries directly inside each root.
	MaxDepth int
	// Exclude lists directories that are never entered, such as the output
	// root when it lives inside the library.
	Exclude []string
	Logger  *log.Logger
}

// Discover expands roots into a sorted, deduplicated list of supported
// documents. Files named explicitly are returned even if hidden, but must
// still be supported. A root that does not exist is an error; unreadable
// subdirectories are logged and skipped.
func Discover(ctx context.Context, roots []string, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("library")

	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	supports := opts.Supports
	if supports == nil {
		supports = func(string) bool { return true }
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		excluded[Canonical(dir)] = true
	}

	found := make(map[string]string)
	add := func(path string) {
		key := Canonical(path)
		if _, ok := found[key]; !ok {
			found[key] = path
		}
	}

	queue := NewQueue()
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		if !info.IsDir() {
			if !supports(root) {
				return nil, fmt.Errorf("%s: unsupported file type %q", root, filepath.Ext(root))
			}
			add(root)
			continue
		}
		if excluded[Canonical(root)] {
			continue
		}
		queue.Add(Canonical(root), 0)
	}

	for queue.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir, depth := queue.Next()

		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Warn("skipping directory", "dir", dir, "err", err)
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if IsHidden(name) || IsPartial(name) {
				continue
			}
			path := filepath.Join(dir, name)

			info, err := os.Stat(path)
			if err != nil {
				logger.Debug("skipping entry", "path", path, "err", err)
				continue
			}
			if info.IsDir() {
				if depth < maxDepth && !excluded[Canonical(path)] {
					queue.Add(Canonical(path), depth+1)
				}
				continue
			}
			if supports(path) {
				add(path)
			}
		}
	}

	paths := make([]string, 0, len(found))
	for _, p := range found {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	logger.Debug("discovered", "documents", len(paths), "dirs", queue.Visited())
	return paths, nil
}
