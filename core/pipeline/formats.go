package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/epub"
)

// Formats maps an upper-case file extension without the dot to its opener.
type Formats map[string]core.Opener

// DefaultFormats returns the built-in formats.
func DefaultFormats(logger *log.Logger) Formats {
	return Formats{
		"EPUB": epub.NewOpener(logger),
	}
}

// Open dispatches on the file extension of path.
func (f Formats) Open(ctx context.Context, path string) (core.Document, error) {
	ext := extension(path)
	opener, ok := f[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
	return opener.Open(ctx, path)
}

// Supports reports whether path has a registered extension.
func (f Formats) Supports(path string) bool {
	_, ok := f[extension(path)]
	return ok
}

// Extensions returns the registered extensions, lowercased with a leading
// dot (".epub").
func (f Formats) Extensions() []string {
	exts := make([]string, 0, len(f))
	for ext := range f {
		exts = append(exts, "."+strings.ToLower(ext))
	}
	sort.Strings(exts)
	return exts
}

func extension(path string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
}
