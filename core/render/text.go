// Package render provides transcript and run report renderers for the
// bookvoice pipeline. Transcripts are written next to each chapter's audio
// file; the run report goes into the book folder.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/chunk"
)

// TextRenderer writes the normalized text, one sentence per line, with a
// blank line between paragraph-sized chunks. This is exactly what was sent
// to the speech backend.
type TextRenderer struct {
	chunker *chunk.Chunker
}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{chunker: chunk.New(0)}
}

// Render implements core.TranscriptRenderer.
func (r *TextRenderer) Render(t core.Transcript) ([]byte, error) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s %s\n\n", t.Ordinal, heading(t))

	for i, sentences := range r.chunker.Chunk(t.Text) {
		if i > 0 {
			buf.WriteString("\n")
		}
		for _, s := range sentences {
			buf.WriteString(s)
			buf.WriteString("\n")
		}
	}
	return []byte(buf.String()), nil
}

// Extension returns the file extension for text transcripts.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

// heading is the chapter title, or its id when the title is unknown.
func heading(t core.Transcript) string {
	if t.Title != "" {
		return t.Title
	}
	return t.ChapterID
}
