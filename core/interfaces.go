// Package core defines the pipeline contracts for bookvoice.
// Each stage of the conversion (open, extract, normalize, synthesize, write)
// is a small interface so it can be replaced by a fake in tests.
package core

import "context"

// Chapter is one addressable unit of a Document, in reading order.
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Href  string `json:"href,omitempty"`
}

// Document is a parsed e-book. Raw chapter markup is loaded lazily.
type Document interface {
	// Title returns the book title from the package metadata, or "".
	Title() string
	// Chapters returns the chapters in reading (spine) order.
	Chapters() []Chapter
	// DeclaredChapters returns the table-of-contents length, which drives
	// the zero-padding width of output ordinals.
	DeclaredChapters() int
	// RawText returns the markup of the chapter with the given id.
	RawText(ctx context.Context, id string) (string, error)
	// Close releases the underlying container.
	Close() error
}

// Opener parses a container file into a Document.
type Opener interface {
	Open(ctx context.Context, path string) (Document, error)
}

// Normalizer turns chapter markup into speakable prose. It never fails.
type Normalizer interface {
	Normalize(markup string) string
}

// Extractor retrieves and normalizes the text of a single chapter.
type Extractor interface {
	Extract(ctx context.Context, doc Document, chapterID string) (string, error)
}

// Synthesizer converts text into audio bytes using a speech backend.
type Synthesizer interface {
	// Name identifies the backend in output file names (e.g. "melotts").
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// FileWriter persists bytes to a path, creating parent directories.
type FileWriter interface {
	EnsureDir(dir string) error
	Write(path string, data []byte) error
}

// Transcript is the text of one written chapter, handed to transcript renderers.
type Transcript struct {
	BookTitle string
	Ordinal   string
	ChapterID string
	Title     string
	Raw       string
	Text      string
}

// TranscriptRenderer renders a chapter transcript next to its audio file.
type TranscriptRenderer interface {
	Render(t Transcript) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// ReportRenderer renders the outcome of one document run.
type ReportRenderer interface {
	Render(r *Report) ([]byte, error)
	Extension() string
}
