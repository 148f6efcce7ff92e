// Package chunk splits normalized chapter text into sentences and groups
// them into paragraph-sized chunks for transcripts.
package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunker groups whole sentences into chunks of bounded word count.
type Chunker struct {
	MaxWords int // soft limit; a longer sentence forms its own chunk
}

// New creates a Chunker with the given word limit.
// Defaults to 120 if maxWords <= 0.
func New(maxWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = 120
	}
	return &Chunker{MaxWords: maxWords}
}

// Chunk splits text into chunks, each a list of consecutive sentences.
func (c *Chunker) Chunk(text string) [][]string {
	var chunks [][]string
	var current []string
	words := 0

	for _, s := range Sentences(text) {
		n := len(strings.Fields(s))
		if len(current) > 0 && words+n > c.MaxWords {
			chunks = append(chunks, current)
			current, words = nil, 0
		}
		current = append(current, s)
		words += n
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// Sentences splits text after each run of '.', '!' or '?' that is followed
// by whitespace or the end of the text.
func Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isTerminator(r) {
			continue
		}
		for i < len(text) && isTerminator(rune(text[i])) {
			i++
		}
		if i == len(text) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(next) {
			if s := strings.TrimSpace(text[start:i]); s != "" {
				out = append(out, s)
			}
			start = i
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
