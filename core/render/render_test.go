package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/bookvoice/core"
)

var transcript = core.Transcript{
	BookTitle: "El Libro",
	Ordinal:   "01",
	ChapterID: "ch1",
	Title:     "Capítulo 1",
	Raw:       "<h1>Capítulo 1</h1><p>El <em>Dr.</em> Ruiz llegó.</p><ul><li>uno</li></ul>",
	Text:      "Capítulo 1. El Doctor Ruiz llegó. uno.",
}

func TestTextRenderer(t *testing.T) {
	out, err := NewTextRenderer().Render(transcript)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "01 Capítulo 1\n\nCapítulo 1.\nEl Doctor Ruiz llegó.\nuno.\n"
	if string(out) != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestMarkdownRenderer(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(transcript)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	md := string(out)
	for _, want := range []string{"<!-- El Libro -->", "# Capítulo 1", "*Dr.*", "- uno"} {
		if !strings.Contains(md, want) {
			t.Errorf("Render() = %q, missing %q", md, want)
		}
	}
	if strings.Count(md, "# Capítulo 1") != 1 {
		t.Errorf("Render() = %q, want a single title heading", md)
	}
}

func TestMarkdownRendererWithoutMarkup(t *testing.T) {
	tr := transcript
	tr.Raw = ""
	tr.Title = ""
	out, err := NewMarkdownRenderer().Render(tr)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out), "# ch1\n\nCapítulo 1. El Doctor Ruiz llegó. uno.\n") {
		t.Errorf("Render() = %q", out)
	}
}

func TestHTMLRenderer(t *testing.T) {
	out, err := NewHTMLRenderer().Render(transcript)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)
	for _, want := range []string{"<title>El Libro - Capítulo 1</title>", "<h1>Capítulo 1</h1>", "<li>uno</li>"} {
		if !strings.Contains(page, want) {
			t.Errorf("Render() missing %q in %q", want, page)
		}
	}
	if strings.Contains(page, "raw HTML omitted") {
		t.Errorf("Render() leaked a raw HTML placeholder: %q", page)
	}
}

func TestPDFRenderer(t *testing.T) {
	out, err := NewPDFRenderer().Render(transcript)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("Render() output does not start with a PDF header")
	}
}

func sampleReport() *core.Report {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &core.Report{
		Source:    "/books/libro.epub",
		Title:     "El Libro",
		OutputDir: "/out/el libro",
		Width:     2,
		State:     core.StateDone,
		Outcomes: []core.Outcome{
			{Status: core.StatusWritten, Ordinal: 1, ChapterID: "ch1", Title: "Uno", Path: "/out/el libro/01-uno-v1-melotts-es.wav", Bytes: 2048},
			{Status: core.StatusSkipped, ChapterID: "ch2", Stage: core.StageSynthesize, Reason: "backend down"},
			{Status: core.StatusWritten, Ordinal: 2, ChapterID: "ch3", Path: "/out/el libro/02-ch3-v1-melotts-es.wav", Bytes: 1024, Cached: true},
		},
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(sampleReport())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var decoded struct {
		State    string `json:"state"`
		Outcomes []struct {
			Status string `json:"status"`
			Stage  string `json:"stage"`
		} `json:"outcomes"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.State != "done" {
		t.Errorf("state = %q, want done", decoded.State)
	}
	if len(decoded.Outcomes) != 3 || decoded.Outcomes[1].Status != "skipped" || decoded.Outcomes[1].Stage != "synthesize" {
		t.Errorf("outcomes = %+v", decoded.Outcomes)
	}
}

func TestReportMarkdownRenderer(t *testing.T) {
	out, err := NewReportMarkdownRenderer().Render(sampleReport())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	md := string(out)
	for _, want := range []string{
		"# El Libro",
		"- Written: 2, skipped: 1, audio: 3.1 kB",
		"- Took: 1m30s",
		"| 01 | Uno | written | 01-uno-v1-melotts-es.wav |",
		"| - | ch2 | skipped | synthesize: backend down |",
		"| 02 | ch3 | written | 02-ch3-v1-melotts-es.wav (cached) |",
		"Skipped by stage: synthesize: 1",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Render() missing %q in:\n%s", want, md)
		}
	}
}

func TestRegistry(t *testing.T) {
	for _, f := range TranscriptFormats {
		r, err := Transcript(f)
		if err != nil {
			t.Errorf("Transcript(%q) error = %v", f, err)
			continue
		}
		if r.Extension() != "."+f {
			t.Errorf("Transcript(%q).Extension() = %q", f, r.Extension())
		}
	}
	for _, f := range ReportFormats {
		if _, err := Report(f); err != nil {
			t.Errorf("Report(%q) error = %v", f, err)
		}
	}
	if _, err := Transcript("docx"); err == nil {
		t.Error("Transcript(docx) error = nil")
	}
	if _, err := Report("xml"); err == nil {
		t.Error("Report(xml) error = nil")
	}
}
