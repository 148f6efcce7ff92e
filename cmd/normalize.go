package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gaurav-prasanna/bookvoice/core/extract"
	"github.com/gaurav-prasanna/bookvoice/core/normalize"
)

var flagTrace bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file|-]",
	Short: "Print the speakable text of a chapter file",
	Long: paragraph(fmt.Sprintf(
		"\n%s an XHTML chapter, or standard input, the way chapters are cleaned before synthesis. With --trace the text is printed after every stage.",
		keyword("Normalize"),
	)),
	Example: paragraph("bookvoice normalize OEBPS/chapter1.xhtml\nunzip -p book.epub OEBPS/ch2.xhtml | bookvoice normalize --locale en"),
	Args:    cobra.MaximumNArgs(1),
	RunE:    runNormalize,
}

func init() {
	normalizeCmd.Flags().BoolVar(&flagTrace, "trace", false, "print the text after each normalization stage")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("no input: pass a chapter file or pipe one in")
		}
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	locale, _ := cmd.Flags().GetString("locale")
	n := normalize.New(normalize.LocaleFor(locale))
	body := extract.Body(string(data))

	out := cmd.OutOrStdout()
	if !flagTrace {
		fmt.Fprintln(out, n.Normalize(body))
		return nil
	}

	text := body
	for i, st := range n.Stages() {
		text = st.Run(text)
		fmt.Fprintf(out, "%s\n%s\n\n", heading(fmt.Sprintf("%2d %s", i+1, st.Name)), text)
	}
	return nil
}
