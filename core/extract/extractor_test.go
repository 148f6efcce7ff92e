package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/normalize"
)

type fakeDoc struct {
	raw map[string]string
}

func (d *fakeDoc) Title() string { return "" }
func (d *fakeDoc) Chapters() []core.Chapter { return nil }
func (d *fakeDoc) DeclaredChapters() int { return len(d.raw) }
func (d *fakeDoc) Close() error { return nil }
func (d *fakeDoc) RawText(_ context.Context, id string) (string, error) {
	raw, ok := d.raw[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrChapterNotFound, id)
	}
	return raw, nil
}

const chapterDoc = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Ignorado</title><style>p { color: red; }</style></head>
<body class="chapter">
<!-- nota del editor -->
<h1>Capítulo 1</h1>
<p>El Dr. Ruiz llegó.</p>
<script>var x = "no";</script>
<p>&nbsp;</p>
</body>
</html>`

func TestExtract(t *testing.T) {
	doc := &fakeDoc{raw: map[string]string{
		"ch1":   chapterDoc,
		"empty": "<html><body><p> </p><p><img src=\"a.png\"/></p></body></html>",
	}}
	e := New(normalize.New(normalize.Spanish), nil)

	got, err := e.Extract(context.Background(), doc, "ch1")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if want := "Capítulo 1. El Doctor Ruiz llegó."; got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}

	if _, err := e.Extract(context.Background(), doc, "empty"); !errors.Is(err, core.ErrEmptyChapter) {
		t.Errorf("Extract(empty) error = %v, want ErrEmptyChapter", err)
	}

	if _, err := e.Extract(context.Background(), doc, "missing"); !errors.Is(err, core.ErrChapterNotFound) {
		t.Errorf("Extract(missing) error = %v, want ErrChapterNotFound", err)
	}
}

func TestBody(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "body only",
			raw:  "<html><head><title>T</title></head><body><p>x</p></body></html>",
			want: "<p>x</p>",
		},
		{
			name: "no body",
			raw:  "<p>a</p><script>b()</script><p>c</p>",
			want: "<p>a</p><p>c</p>",
		},
		{
			name: "comments and styles",
			raw:  "<body><!-- a\nb --><STYLE type=\"text/css\">x{}</STYLE><p>y</p></body>",
			want: "<p>y</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Body(tt.raw); got != tt.want {
				t.Errorf("Body() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeadline(t *testing.T) {
	tests := map[string]string{
		"<html><body><h2>Dos</h2><h1>  El\n Uno </h1></body></html>": "El Uno",
		"<html><body><h3>Tres</h3><p>x</p></body></html>":             "Tres",
		"<html><body><p>Sin título</p></body></html>":                 "",
		"<html><head><title>h1</title></head><body></body></html>":    "",
	}
	for raw, want := range tests {
		if got := Headline(raw); got != want {
			t.Errorf("Headline(%q) = %q, want %q", raw, got, want)
		}
	}
}
