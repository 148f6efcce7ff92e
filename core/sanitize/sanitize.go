// Package sanitize turns free-form titles and file names into
// filesystem-safe strings for output folders and files.
//
// The result only contains Latin letters (accented ones included), digits,
// apostrophes and single spaces.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	extensionRegex  = regexp.MustCompile(`\.[^/.]+$`)
	disallowedRegex = regexp.MustCompile(`[^a-zA-Z\x{00C0}-\x{00FF}0-9' ]+`)
	spaceRegex      = regexp.MustCompile(`\s+`)
	dashRegex       = regexp.MustCompile(`-+`)

	curlyApostrophes = strings.NewReplacer("‘", "'", "’", "'")
)

// Filename cleans a name derived from a file path. A trailing ".ext" suffix
// is removed before cleaning.
func Filename(input string, lower bool) string {
	return clean(extensionRegex.ReplaceAllString(norm.NFC.String(input), ""), lower)
}

// Title cleans a human-readable title.
func Title(input string, lower bool) string {
	return clean(input, lower)
}

// Slug converts a title into a lowercase, dash-separated file name component.
// e.g. "Capítulo 1: El Viaje" -> "capítulo-1-el-viaje"
func Slug(input string) string {
	s := Title(input, true)
	s = strings.ReplaceAll(s, " ", "-")
	return dashRegex.ReplaceAllString(s, "-")
}

func clean(input string, lower bool) string {
	s := norm.NFC.String(input)
	s = curlyApostrophes.Replace(s)
	s = disallowedRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
	if lower {
		s = strings.ToLower(s)
	}
	return s
}
