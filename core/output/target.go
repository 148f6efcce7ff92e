package output

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/bookvoice/core/sanitize"
)

// AudioExt is the extension of synthesized chapter files.
const AudioExt = ".wav"

var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")

// Target names one chapter audio file. It is a pure value: the same fields
// always produce the same name.
type Target struct {
	Ordinal int
	Width   int
	// Chapter is the chapter title, or its id when the title is unknown.
	Chapter string
	Version string
	Synth   string
	Voice   string
}

// Prefix returns the zero-padded ordinal, e.g. "07" for width 2.
func (t Target) Prefix() string {
	width := t.Width
	if width < 1 {
		width = 1
	}
	return fmt.Sprintf("%0*d", width, t.Ordinal)
}

// Base returns the file name without extension, lowercased.
// e.g. "01-capitulo-1-v1-melotts-es"
func (t Target) Base() string {
	chapter := sanitize.Slug(t.Chapter)
	if chapter == "" {
		chapter = "chapter"
	}
	name := strings.Join([]string{
		t.Prefix(),
		chapter,
		pathSeparators.Replace(t.Version),
		pathSeparators.Replace(t.Synth),
		pathSeparators.Replace(t.Voice),
	}, "-")
	return strings.ToLower(name)
}

// Name returns the audio file name.
func (t Target) Name() string {
	return t.Base() + AudioExt
}

// Path joins the audio file name to dir.
func (t Target) Path(dir string) string {
	return filepath.Join(dir, t.Name())
}

// SidePath returns the path of a file sharing the audio base name, such as a
// transcript with extension ".md".
func (t Target) SidePath(dir, ext string) string {
	return filepath.Join(dir, t.Base()+ext)
}

// Width returns the number of decimal digits of the declared chapter count,
// with a minimum of 1.
func Width(declared int) int {
	if declared < 1 {
		return 1
	}
	return len(strconv.Itoa(declared))
}
