package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// ReportMarkdownRenderer writes the run report as a Markdown table.
type ReportMarkdownRenderer struct{}

// NewReportMarkdownRenderer creates a ReportMarkdownRenderer.
func NewReportMarkdownRenderer() *ReportMarkdownRenderer {
	return &ReportMarkdownRenderer{}
}

// Render implements core.ReportRenderer.
func (r *ReportMarkdownRenderer) Render(rep *core.Report) ([]byte, error) {
	var buf strings.Builder

	title := rep.Title
	if title == "" {
		title = filepath.Base(rep.Source)
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "- Source: `%s`\n", rep.Source)
	fmt.Fprintf(&buf, "- Output: `%s`\n", rep.OutputDir)
	fmt.Fprintf(&buf, "- State: %s\n", rep.State)
	fmt.Fprintf(&buf, "- Written: %d, skipped: %d, audio: %s\n",
		len(rep.Written()), len(rep.Skipped()), humanize.Bytes(uint64(rep.Bytes())))
	if !rep.FinishedAt.IsZero() {
		fmt.Fprintf(&buf, "- Took: %s\n", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Second))
	}

	if len(rep.Outcomes) == 0 {
		return []byte(buf.String()), nil
	}

	buf.WriteString("\n| # | Chapter | Status | File / Reason |\n|---|---|---|---|\n")
	for _, o := range rep.Outcomes {
		ordinal := "-"
		if o.Status != core.StatusSkipped {
			ordinal = fmt.Sprintf("%0*d", max(rep.Width, 1), o.Ordinal)
		}
		name := o.Title
		if name == "" {
			name = o.ChapterID
		}
		detail := filepath.Base(o.Path)
		if o.Status == core.StatusSkipped {
			detail = fmt.Sprintf("%s: %s", o.Stage, o.Reason)
		} else if o.Cached {
			detail += " (cached)"
		}
		fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n", ordinal, escapeCell(name), o.Status, escapeCell(detail))
	}

	if skipped := rep.Skipped(); len(skipped) > 0 {
		counts := map[core.Stage]int{}
		for _, o := range skipped {
			counts[o.Stage]++
		}
		stages := make([]string, 0, len(counts))
		for s, n := range counts {
			stages = append(stages, fmt.Sprintf("%s: %d", s, n))
		}
		sort.Strings(stages)
		fmt.Fprintf(&buf, "\nSkipped by stage: %s\n", strings.Join(stages, ", "))
	}
	return []byte(buf.String()), nil
}

// Extension returns the file extension for Markdown reports.
func (r *ReportMarkdownRenderer) Extension() string {
	return ".md"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
