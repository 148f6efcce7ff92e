package library

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func isEPUB(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".epub")
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	root = Canonical(root)
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, Canonical(p))
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{
		"b.epub",
		"a.EPUB",
		"notes.txt",
		".hidden.epub",
		"draft.epub.part",
		"series/one.epub",
		"series/deep/two.epub",
		".cache/three.epub",
		"out/generated.epub",
	} {
		touch(t, filepath.Join(root, f))
	}

	opts := Options{
		Supports: isEPUB,
		Exclude:  []string{filepath.Join(root, "out")},
		Logger:   log.New(io.Discard),
	}
	got, err := Discover(context.Background(), []string{root}, opts)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"a.EPUB", "b.epub", "series/deep/two.epub", "series/one.epub"}
	if strings.Join(rel(t, root, got), ",") != strings.Join(want, ",") {
		t.Errorf("Discover() = %v, want %v", rel(t, root, got), want)
	}
}

func TestDiscoverDepth(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.epub"))
	touch(t, filepath.Join(root, "a/one.epub"))
	touch(t, filepath.Join(root, "a/b/two.epub"))

	tests := []struct {
		depth int
		want  string
	}{
		{depth: -1, want: "top.epub"},
		{depth: 1, want: "a/one.epub,top.epub"},
		{depth: 0, want: "a/b/two.epub,a/one.epub,top.epub"},
	}
	for _, tt := range tests {
		got, err := Discover(context.Background(), []string{root}, Options{
			Supports: isEPUB,
			MaxDepth: tt.depth,
			Logger:   log.New(io.Discard),
		})
		if err != nil {
			t.Fatalf("Discover(depth %d) error = %v", tt.depth, err)
		}
		if s := strings.Join(rel(t, root, got), ","); s != tt.want {
			t.Errorf("Discover(depth %d) = %s, want %s", tt.depth, s, tt.want)
		}
	}
}

func TestDiscoverDeduplicates(t *testing.T) {
	root := t.TempDir()
	book := filepath.Join(root, "book.epub")
	touch(t, book)

	got, err := Discover(context.Background(), []string{book, root, book}, Options{
		Supports: isEPUB,
		Logger:   log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Discover() = %v, want one document", got)
	}
}

func TestDiscoverErrors(t *testing.T) {
	root := t.TempDir()
	txt := filepath.Join(root, "notes.txt")
	touch(t, txt)

	if _, err := Discover(context.Background(), []string{filepath.Join(root, "missing")}, Options{Supports: isEPUB}); err == nil {
		t.Error("Discover(missing) error = nil")
	}
	if _, err := Discover(context.Background(), []string{txt}, Options{Supports: isEPUB}); err == nil {
		t.Error("Discover(unsupported file) error = nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Discover(ctx, []string{root}, Options{Supports: isEPUB}); err != context.Canceled {
		t.Errorf("Discover(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	if !q.Add("/a", 0) || q.Add("/a", 3) {
		t.Error("Add() did not deduplicate")
	}
	q.Add("/b", 1)
	if q.Visited() != 2 {
		t.Errorf("Visited() = %d, want 2", q.Visited())
	}
	dir, depth := q.Next()
	if dir != "/a" || depth != 0 {
		t.Errorf("Next() = %s, %d", dir, depth)
	}
	dir, depth = q.Next()
	if dir != "/b" || depth != 1 || q.HasNext() {
		t.Errorf("Next() = %s, %d, HasNext() = %v", dir, depth, q.HasNext())
	}
}

func TestRules(t *testing.T) {
	for _, name := range []string{".git", ".hidden.epub"} {
		if !IsHidden(name) {
			t.Errorf("IsHidden(%q) = false", name)
		}
	}
	for _, name := range []string{"book.epub", ".", ".."} {
		if IsHidden(name) {
			t.Errorf("IsHidden(%q) = true", name)
		}
	}
	for _, name := range []string{"~$book.epub", "book.epub.part", "book.epub.crdownload", "x.TMP"} {
		if !IsPartial(name) {
			t.Errorf("IsPartial(%q) = false", name)
		}
	}
	if IsPartial("book.epub") {
		t.Error("IsPartial(book.epub) = true")
	}
}
