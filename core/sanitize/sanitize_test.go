package sanitize

import (
	"regexp"
	"testing"
)

var sanitizedRegex = regexp.MustCompile(`^[A-Za-z\x{00C0}-\x{00FF}0-9']+( [A-Za-z\x{00C0}-\x{00FF}0-9']+)*$|^$`)

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lower bool
		want  string
	}{
		{
			name:  "extension and punctuation",
			input: "My Book: Part One!.epub",
			want:  "My Book Part One",
		},
		{
			name:  "lowercase",
			input: "Assassin's Creed Origins_ Desert Oath.epub",
			lower: true,
			want:  "assassin's creed origins desert oath",
		},
		{
			name:  "only last extension is removed",
			input: "archive.tar.gz",
			want:  "archive tar",
		},
		{
			name:  "no extension",
			input: "Plain Name",
			want:  "Plain Name",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \t ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.input, tt.lower)
			if got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lower bool
		want  string
	}{
		{
			name:  "curly quotes",
			input: "It's a “Test”",
			want:  "It's a Test",
		},
		{
			name:  "curly apostrophe becomes straight",
			input: "Don’t Panic",
			want:  "Don't Panic",
		},
		{
			name:  "accented letters are kept",
			input: "Canción de Otoño",
			want:  "Canción de Otoño",
		},
		{
			name:  "decomposed input is composed",
			input: "Cafe\u0301",
			want:  "Caf\u00e9",
		},
		{
			name:  "extension-like suffix is kept",
			input: "Version 2.0",
			want:  "Version 2 0",
		},
		{
			name:  "dashes and underscores",
			input: "  Part_1 -- The   Start ",
			lower: true,
			want:  "part 1 the start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Title(tt.input, tt.lower)
			if got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Capítulo 1: El Viaje": "capítulo-1-el-viaje",
		"chapter_01":           "chapter-01",
		"  ":                   "",
		"A -- B":               "a-b",
	}
	for input, want := range tests {
		if got := Slug(input); got != want {
			t.Errorf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSanitizedAlphabet(t *testing.T) {
	inputs := []string{
		"¿Qué pasó? ¡Nada!",
		"Tab\tand\nnewline",
		"emoji 🎧 title",
		"<b>markup</b> & entities",
		"日本語 mixed Latin",
	}
	for _, in := range inputs {
		for _, got := range []string{Title(in, false), Filename(in, true)} {
			if !sanitizedRegex.MatchString(got) {
				t.Errorf("sanitized %q = %q contains disallowed characters or spacing", in, got)
			}
		}
	}
}
