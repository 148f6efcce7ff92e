package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stage is one named rewrite of the normalization pipeline.
type Stage struct {
	Name  string
	Apply func(string) string
	// FixedPoint stages are re-applied until the text stops changing.
	FixedPoint bool
}

// Run applies the stage to s.
func (st Stage) Run(s string) string {
	if !st.FixedPoint {
		return st.Apply(s)
	}
	for {
		out := st.Apply(s)
		if out == s {
			return out
		}
		s = out
	}
}

var (
	lineBreakRegex    = regexp.MustCompile(`\r?\n+`)
	quoteRegex        = regexp.MustCompile(`['"…‘’“”«»]`)
	emptyElementRegex = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)[^>]*>(?:\s|&nbsp;|\x{00A0}|<img[^>]*>)*</([a-zA-Z][a-zA-Z0-9]*)\s*>`)
	blockRegex        = regexp.MustCompile(`<[^>]+>\s*([^<]+?)\s*</[^>]+>`)
	tagRegex          = regexp.MustCompile(`</?\s*[a-zA-Z]+[^>]*/?>`)
	entityRegex       = regexp.MustCompile(`&[a-zA-Z]+;`)
	periodRunRegex    = regexp.MustCompile(`\.+`)
	markPeriodRegex   = regexp.MustCompile(`([?!])\.`)
	periodCommaRegex  = regexp.MustCompile(`\.,`)
	asideRegex        = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	percentRegex      = regexp.MustCompile(`\s*%`)
	celsiusRegex      = regexp.MustCompile(`(\d+)\s?°C`)
	fahrenheitRegex   = regexp.MustCompile(`(\d+)\s?°F`)
	magnitudeRegex    = regexp.MustCompile(`(\d+)([kmb])`)
	thousandsRegex    = regexp.MustCompile(`(\d)[. ](\d{3})`)
	spaceRegex        = regexp.MustCompile(`[\s\x{00A0}]+`)
)

// stagesFor builds the ordered pipeline for a locale.
func stagesFor(l Locale) []Stage {
	abbrev := abbreviationRegex(l)
	return []Stage{
		{Name: "line-breaks", Apply: func(s string) string {
			return lineBreakRegex.ReplaceAllString(s, " ")
		}},
		{Name: "quotes", Apply: func(s string) string {
			return quoteRegex.ReplaceAllString(s, "")
		}},
		{Name: "empty-elements", Apply: removeEmptyElements},
		{Name: "block-sentences", Apply: closeBlocks},
		{Name: "residual-tags", FixedPoint: true, Apply: func(s string) string {
			return tagRegex.ReplaceAllString(s, "")
		}},
		{Name: "entities", Apply: func(s string) string {
			return entityRegex.ReplaceAllString(s, " ")
		}},
		{Name: "punctuation", Apply: func(s string) string {
			s = periodRunRegex.ReplaceAllString(s, ".")
			s = markPeriodRegex.ReplaceAllString(s, "$1")
			return periodCommaRegex.ReplaceAllString(s, ".")
		}},
		{Name: "asides", Apply: removeAsides},
		{Name: "abbreviations", Apply: func(s string) string {
			return expandAbbreviations(abbrev, l, s)
		}},
		{Name: "units", Apply: func(s string) string {
			return expandUnits(l, s)
		}},
		{Name: "thousands", FixedPoint: true, Apply: joinThousands},
		{Name: "whitespace", Apply: func(s string) string {
			return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
		}},
	}
}

// removeEmptyElements deletes elements whose content is only whitespace,
// non-breaking spaces or images. Open and close tag names must agree.
func removeEmptyElements(s string) string {
	return emptyElementRegex.ReplaceAllStringFunc(s, func(m string) string {
		sub := emptyElementRegex.FindStringSubmatch(m)
		if !strings.EqualFold(sub[1], sub[2]) {
			return m
		}
		return ""
	})
}

// closeBlocks replaces each innermost element with its trimmed text and
// makes sure it ends with a sentence terminator. A block glued to the next
// word or tag gets a separating space: "<h1>Título</h1><p>A</p>" -> "Título. A.".
func closeBlocks(s string) string {
	idx := blockRegex.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range idx {
		b.WriteString(s[last:m[0]])
		last = m[1]
		text := strings.TrimSpace(s[m[2]:m[3]])
		if text == "" {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(text)
		switch text[len(text)-1] {
		case '.', '!', '?':
		default:
			b.WriteByte('.')
		}
		if last < len(s) && needsSeparator(s[last]) {
			b.WriteByte(' ')
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

func needsSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '.', ',', ';', ':', '!', '?', ')':
		return false
	}
	return true
}

// removeAsides deletes parenthesised and bracketed spans. A period left
// right after a terminator by the deletion is dropped: "Fin.(nota)." -> "Fin.".
func removeAsides(s string) string {
	idx := asideRegex.FindAllStringIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	var mark byte
	for _, m := range idx {
		seg := s[last:m[0]]
		b.WriteString(seg)
		if t := strings.TrimRight(seg, " "); t != "" {
			mark = t[len(t)-1]
		}
		last = m[1]
		if last < len(s) && s[last] == '.' && (mark == '.' || mark == '!' || mark == '?') {
			last++
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

func abbreviationRegex(l Locale) *regexp.Regexp {
	alts := l.alternatives()
	if len(alts) == 0 {
		return nil
	}
	for i, a := range alts {
		alts[i] = regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`(` + strings.Join(alts, "|") + `)(\.?)`)
}

func expandAbbreviations(re *regexp.Regexp, l Locale, s string) string {
	if re == nil {
		return s
	}
	return replaceWords(re, s, 1, func(groups []string, end int) string {
		e, ok := l.lookup(groups[1])
		if !ok {
			return groups[0]
		}
		if groups[2] == "" || (e.TakesPeriod && !isWordAt(s, end)) {
			return e.Spoken
		}
		return e.Spoken + groups[2]
	})
}

func expandUnits(l Locale, s string) string {
	s = percentRegex.ReplaceAllString(s, " "+l.Percent)
	s = celsiusRegex.ReplaceAllString(s, "${1} "+l.Celsius)
	s = fahrenheitRegex.ReplaceAllString(s, "${1} "+l.Fahrenheit)
	return replaceWords(magnitudeRegex, s, 0, func(groups []string, _ int) string {
		switch groups[2] {
		case "k":
			return groups[1] + " " + l.Thousand
		case "m":
			return groups[1] + " " + l.Million
		default:
			return groups[1] + " " + l.Billion
		}
	})
}

// joinThousands drops "." and " " thousands separators: "1.000" -> "1000".
// A group only matches when exactly three digits follow the separator.
func joinThousands(s string) string {
	idx := thousandsRegex.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range idx {
		if m[1] < len(s) && isDigit(s[m[1]]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(s[m[2]:m[3]])
		b.WriteString(s[m[4]:m[5]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// replaceWords rewrites the matches of re that stand as whole words: the
// match must not be glued to a letter or digit on its left, and the end of
// submatch edge must not be glued to one on its right. Letters of every
// script count, so "etcétera" never matches "etc".
func replaceWords(re *regexp.Regexp, s string, edge int, repl func(groups []string, end int) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range idx {
		start, end := m[0], m[1]
		if isWordBefore(s, start) || isWordAt(s, m[2*edge+1]) {
			continue
		}
		groups := make([]string, len(m)/2)
		for g := range groups {
			if m[2*g] >= 0 {
				groups[g] = s[m[2*g]:m[2*g+1]]
			}
		}
		b.WriteString(s[last:start])
		b.WriteString(repl(groups, end))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordBefore(s string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func isWordAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
