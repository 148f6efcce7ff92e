// Package cmd: convert command.
// Expands the arguments into books, then runs each one through the pipeline:
// open → extract → normalize → synthesize → write.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/render"
	"github.com/gaurav-prasanna/bookvoice/library"
)

var (
	flagTranscript   string
	flagReport       bool
	flagReportFormat []string
	flagDryRun       bool
	flagDepth        int
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|dir>...",
	Short: "Convert books into per-chapter audio files",
	Long: paragraph(fmt.Sprintf(`
%s every EPUB given, or found under the given directories, into one audio file per chapter. Files land in a folder named after the book inside the output directory. Chapters that fail are skipped and numbering continues without gaps.`,
		keyword("Convert"))),
	Example: paragraph("bookvoice convert book.epub\nbookvoice convert ~/Books --transcript txt\nbookvoice convert book.epub --dry-run\nbookvoice convert book.epub --report --report-format json,md"),
	Args:    cobra.MinimumNArgs(1),
	RunE:    runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&flagTranscript, "transcript", "", fmt.Sprintf("write a transcript next to each audio file (%v)", render.TranscriptFormats))
	convertCmd.Flags().BoolVar(&flagReport, "report", false, "write a run report into each book folder")
	convertCmd.Flags().StringSliceVar(&flagReportFormat, "report-format", []string{"json"}, fmt.Sprintf("report formats (%v)", render.ReportFormats))
	convertCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "extract and name chapters without synthesizing or writing")
	convertCmd.Flags().IntVar(&flagDepth, "depth", library.DefaultMaxDepth, "directory levels to search below each argument")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := runOptions{
		dryRun:     flagDryRun,
		transcript: flagTranscript,
		onOutcome: func(o core.Outcome) {
			printOutcome(cmd.OutOrStdout(), o)
		},
	}
	if flagReport || cmd.Flags().Changed("report-format") {
		opts.reportFormats = flagReportFormat
	}
	a, err := newApp(cfg, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	books, err := library.Discover(ctx, args, library.Options{
		Supports: a.formats.Supports,
		MaxDepth: flagDepth,
		Exclude:  []string{a.writer.OutputDir},
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return fmt.Errorf("no books found (looking for %v)", a.formats.Extensions())
	}
	logger.Info("found books", "count", len(books))

	var failed, written, skipped, size int
	for i, book := range books {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", heading(fmt.Sprintf("[%d/%d]", i+1, len(books))), filepath.Base(book))

		rep, err := a.orch.Run(ctx, book)
		switch {
		case errors.Is(err, context.Canceled):
			printSummary(cmd.OutOrStdout(), rep)
			return fmt.Errorf("interrupted after %s", plural(i, "complete book"))
		case documentFailed(err):
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n\n", failMark, err)
			continue
		case err != nil:
			return err
		}

		printSummary(cmd.OutOrStdout(), rep)
		written += len(rep.Written())
		skipped += len(rep.Skipped())
		size += rep.Bytes()
	}

	if len(books) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s, %s, %s, %s\n",
			heading("Total:"),
			plural(len(books)-failed, "book"),
			plural(written, "chapter"),
			faint(plural(skipped, "skipped chapter")),
			humanize.Bytes(uint64(size)),
		)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d books could not be opened", failed, len(books))
	}
	return nil
}

func printOutcome(w io.Writer, o core.Outcome) {
	name := o.Title
	if name == "" {
		name = o.ChapterID
	}
	switch o.Status {
	case core.StatusWritten:
		cached := ""
		if o.Cached {
			cached = faint(" (cached)")
		}
		fmt.Fprintf(w, "  %s %s %s%s\n", okMark, filepath.Base(o.Path), faint(humanize.Bytes(uint64(o.Bytes))), cached)
	case core.StatusPlanned:
		fmt.Fprintf(w, "  %s %s\n", planMark, filepath.Base(o.Path))
	case core.StatusSkipped:
		fmt.Fprintf(w, "  %s %s %s\n", skipMark, name, faint(fmt.Sprintf("%s: %s", o.Stage, o.Reason)))
	}
}

func printSummary(w io.Writer, rep *core.Report) {
	if rep == nil {
		return
	}
	if planned := rep.Planned(); len(planned) > 0 {
		fmt.Fprintf(w, "  %s → %s\n\n", plural(len(planned), "planned chapter"), rep.OutputDir)
		return
	}
	fmt.Fprintf(w, "  %s, %s, %s → %s\n\n",
		plural(len(rep.Written()), "chapter"),
		plural(len(rep.Skipped()), "skipped chapter"),
		humanize.Bytes(uint64(rep.Bytes())),
		rep.OutputDir,
	)
}
