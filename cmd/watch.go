package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/library"
)

var (
	flagDebounce     time.Duration
	flagSkipExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert books as they appear in a directory",
	Long: paragraph(fmt.Sprintf(
		"\n%s a directory: books already there are converted first, then every new or replaced book is converted once it stops changing. Runs until interrupted.",
		keyword("Watch"),
	)),
	Example: paragraph("bookvoice watch ~/Inbox\nbookvoice watch ~/Inbox --transcript md --debounce 10s"),
	Args:    cobra.ExactArgs(1),
	RunE:    runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", library.DefaultDebounce, "quiet period before a new file is converted")
	watchCmd.Flags().BoolVar(&flagSkipExisting, "skip-existing", false, "only convert books that arrive after start")
	watchCmd.Flags().StringVar(&flagTranscript, "transcript", "", "write a transcript next to each audio file")
	watchCmd.Flags().BoolVar(&flagReport, "report", false, "write a run report into each book folder")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := runOptions{
		transcript: flagTranscript,
		onOutcome: func(o core.Outcome) {
			printOutcome(cmd.OutOrStdout(), o)
		},
	}
	if flagReport {
		opts.reportFormats = []string{"json"}
	}
	a, err := newApp(cfg, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	convert := func(book string) {
		fmt.Fprintln(cmd.OutOrStdout(), heading(book))
		rep, err := a.orch.Run(ctx, book)
		if err != nil && documentFailed(err) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n\n", failMark, err)
			return
		}
		printSummary(cmd.OutOrStdout(), rep)
	}

	exclude := []string{a.writer.OutputDir}
	if !flagSkipExisting {
		books, err := library.Discover(ctx, []string{dir}, library.Options{
			Supports: a.formats.Supports,
			Exclude:  exclude,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		for _, book := range books {
			if ctx.Err() != nil {
				return nil
			}
			convert(book)
		}
	}

	return library.Watch(ctx, dir, library.WatchOptions{
		Supports: a.formats.Supports,
		Debounce: flagDebounce,
		Exclude:  exclude,
		Logger:   logger,
	}, convert)
}
