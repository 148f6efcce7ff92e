// Package epub implements the Opener interface for EPUB 2 and EPUB 3 books
// on top of github.com/simp-lee/epub. Chapter markup is read from the
// archive only when requested.
package epub

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	sepub "github.com/simp-lee/epub"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// Opener opens EPUB files.
type Opener struct {
	logger *log.Logger
}

// NewOpener creates an Opener. A nil logger uses the default logger.
func NewOpener(logger *log.Logger) *Opener {
	if logger == nil {
		logger = log.Default()
	}
	return &Opener{logger: logger.WithPrefix("epub")}
}

// Book is an open EPUB archive.
type Book struct {
	book     *sepub.Book
	title    string
	chapters []core.Chapter
	spine    map[string]int
	raw      []func() (string, error)
	declared int
}

// Open reads the package metadata, spine and table of contents.
func (o *Opener) Open(ctx context.Context, filePath string) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sb, err := sepub.Open(filePath)
	if err != nil {
		if errors.Is(err, sepub.ErrDRMProtected) {
			return nil, fmt.Errorf("opening EPUB file: DRM protected: %w", err)
		}
		return nil, fmt.Errorf("opening EPUB file: %w", err)
	}

	book, err := adapt(sb)
	if err != nil {
		sb.Close()
		return nil, err
	}

	o.logger.Debug("opened book",
		"path", filePath,
		"title", book.title,
		"chapters", len(book.chapters),
		"toc", book.declared,
	)
	return book, nil
}

func adapt(sb *sepub.Book) (*Book, error) {
	b := &Book{
		book:     sb,
		spine:    make(map[string]int),
		declared: countTOC(sb.TOC()),
	}
	for _, t := range sb.Metadata().Titles {
		if t = strings.TrimSpace(t); t != "" {
			b.title = t
			break
		}
	}

	for i, ch := range sb.Chapters() {
		id := chapterID(ch.Href, i)
		if _, dup := b.spine[id]; dup {
			id += "-" + strconv.Itoa(i+1)
		}
		b.spine[id] = i
		b.raw = append(b.raw, func() (string, error) {
			data, err := ch.RawContent()
			return string(data), err
		})
		b.chapters = append(b.chapters, core.Chapter{
			ID:    id,
			Title: strings.Join(strings.Fields(ch.Title), " "),
			Href:  ch.Href,
		})
	}
	if len(b.chapters) == 0 {
		return nil, errors.New("no content files found in EPUB")
	}
	return b, nil
}

// countTOC counts every entry of the table-of-contents tree.
func countTOC(items []sepub.TOCItem) int {
	n := 0
	for _, item := range items {
		n += 1 + countTOC(item.Children)
	}
	return n
}

// chapterID names a spine item after its file, falling back to its position.
func chapterID(href string, i int) string {
	if j := strings.IndexByte(href, '#'); j >= 0 {
		href = href[:j]
	}
	base := path.Base(href)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return "spine-" + strconv.Itoa(i+1)
	}
	return base
}

// Title implements core.Document.
func (b *Book) Title() string { return b.title }

// Chapters implements core.Document.
func (b *Book) Chapters() []core.Chapter {
	out := make([]core.Chapter, len(b.chapters))
	copy(out, b.chapters)
	return out
}

// DeclaredChapters implements core.Document.
func (b *Book) DeclaredChapters() int { return b.declared }

// RawText implements core.Document.
func (b *Book) RawText(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	i, ok := b.spine[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrChapterNotFound, id)
	}
	raw, err := b.raw[i]()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", b.chapters[i].Href, err)
	}
	return raw, nil
}

// Close implements core.Document.
func (b *Book) Close() error {
	return b.book.Close()
}
