package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/chunk"
)

// MarkdownRenderer converts the chapter markup to Markdown, keeping the
// book's own structure (headings, emphasis, lists). Without markup it falls
// back to the normalized text split into paragraphs.
type MarkdownRenderer struct {
	chunker *chunk.Chunker
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{chunker: chunk.New(0)}
}

// Render implements core.TranscriptRenderer.
func (r *MarkdownRenderer) Render(t core.Transcript) ([]byte, error) {
	var buf strings.Builder
	if t.BookTitle != "" {
		fmt.Fprintf(&buf, "<!-- %s -->\n\n", t.BookTitle)
	}

	if strings.TrimSpace(t.Raw) != "" {
		md, err := htmltomarkdown.ConvertString(t.Raw)
		if err != nil {
			return nil, fmt.Errorf("converting HTML to markdown: %w", err)
		}
		md = strings.TrimSpace(md)
		if !strings.HasPrefix(md, "#") {
			fmt.Fprintf(&buf, "# %s\n\n", heading(t))
		}
		buf.WriteString(md)
		buf.WriteString("\n")
		return []byte(buf.String()), nil
	}

	fmt.Fprintf(&buf, "# %s\n", heading(t))
	for _, sentences := range r.chunker.Chunk(t.Text) {
		buf.WriteString("\n")
		buf.WriteString(strings.Join(sentences, " "))
		buf.WriteString("\n")
	}
	return []byte(buf.String()), nil
}

// Extension returns the file extension for Markdown transcripts.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
