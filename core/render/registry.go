package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// TranscriptFormats lists the accepted transcript format names.
var TranscriptFormats = []string{"txt", "md", "html", "pdf"}

// ReportFormats lists the accepted report format names.
var ReportFormats = []string{"json", "md"}

// Transcript returns the transcript renderer for format.
func Transcript(format string) (core.TranscriptRenderer, error) {
	switch strings.ToLower(format) {
	case "txt", "text":
		return NewTextRenderer(), nil
	case "md", "markdown":
		return NewMarkdownRenderer(), nil
	case "html":
		return NewHTMLRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown transcript format %q (available: %s)", format, strings.Join(TranscriptFormats, ", "))
	}
}

// Report returns the report renderer for format.
func Report(format string) (core.ReportRenderer, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONRenderer(), nil
	case "md", "markdown":
		return NewReportMarkdownRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (available: %s)", format, strings.Join(ReportFormats, ", "))
	}
}
