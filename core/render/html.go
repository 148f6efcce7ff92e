package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// HTMLRenderer renders the Markdown transcript as a standalone HTML page.
type HTMLRenderer struct {
	markdown *MarkdownRenderer
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{markdown: NewMarkdownRenderer()}
}

// Render implements core.TranscriptRenderer.
func (r *HTMLRenderer) Render(t core.Transcript) ([]byte, error) {
	title := heading(t)
	if t.BookTitle != "" {
		title = t.BookTitle + " - " + title
	}
	t.BookTitle = ""

	md, err := r.markdown.Render(t)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := goldmark.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("converting markdown to HTML: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML transcripts.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
