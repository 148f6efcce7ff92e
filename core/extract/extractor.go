// Package extract implements the Extractor interface.
// It isolates the speakable part of a chapter document by:
//  1. Keeping only the <body> content
//  2. Removing noise elements (head, scripts, styles, comments)
//  3. Running the normalizer over what is left
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// noiseTags are elements removed before normalization, content included.
var noiseTags = []string{
	"head", "script", "style", "noscript",
	"svg", "math", "template",
}

var (
	bodyRegex    = regexp.MustCompile(`(?is)<body\b[^>]*>(.*)</body\s*>`)
	commentRegex = regexp.MustCompile(`(?s)<!--.*?-->`)
	noiseRegexes = compileNoise(noiseTags)
)

func compileNoise(tags []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		out[i] = regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>.*?</` + tag + `\s*>`)
	}
	return out
}

// ChapterExtractor reads chapter markup from a document and normalizes it.
type ChapterExtractor struct {
	normalizer core.Normalizer
	logger     *log.Logger
}

// New creates a ChapterExtractor. A nil logger uses the default logger.
func New(normalizer core.Normalizer, logger *log.Logger) *ChapterExtractor {
	if logger == nil {
		logger = log.Default()
	}
	return &ChapterExtractor{
		normalizer: normalizer,
		logger:     logger.WithPrefix("extract"),
	}
}

// Extract returns the normalized text of one chapter. A chapter with no
// speakable text yields core.ErrEmptyChapter.
func (e *ChapterExtractor) Extract(ctx context.Context, doc core.Document, chapterID string) (string, error) {
	raw, err := doc.RawText(ctx, chapterID)
	if err != nil {
		return "", fmt.Errorf("reading chapter %s: %w", chapterID, err)
	}

	text := strings.TrimSpace(e.normalizer.Normalize(Body(raw)))
	e.logger.Debug("extracted chapter",
		"id", chapterID,
		"raw", humanize.Bytes(uint64(len(raw))),
		"text", humanize.Bytes(uint64(len(text))),
	)
	if text == "" {
		return "", core.ErrEmptyChapter
	}
	return text, nil
}

// Body returns the inner markup of the <body> element with noise elements and
// comments removed. Documents without a body are returned cleaned as a whole.
func Body(raw string) string {
	if m := bodyRegex.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	raw = commentRegex.ReplaceAllString(raw, "")
	for _, re := range noiseRegexes {
		raw = re.ReplaceAllString(raw, "")
	}
	return raw
}

// Headline returns the text of the first h1, h2 or h3 heading, or "".
func Headline(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	for _, tag := range []string{"h1", "h2", "h3"} {
		sel := doc.Find("body " + tag)
		if sel.Length() > 0 {
			return strings.Join(strings.Fields(sel.First().Text()), " ")
		}
	}
	return ""
}
