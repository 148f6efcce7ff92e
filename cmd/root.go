// Package cmd implements the bookvoice command line using Cobra.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/bookvoice/config"
)

// Version is set at build time.
var Version = "dev"

var (
	configFile string
	envFile    string
	debug      bool

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	rootCmd = &cobra.Command{
		Use:   "bookvoice",
		Short: "Turn EPUB books into one audio file per chapter",
		Long: paragraph(fmt.Sprintf(
			"\n%s reads EPUB books, cleans each chapter into speakable text and sends it to a MeloTTS server, writing one numbered audio file per chapter.",
			keyword("bookvoice"),
		)),
		Example:          paragraph("bookvoice convert book.epub\nbookvoice convert ~/Books --transcript md --report\nbookvoice watch ~/Inbox"),
		Version:          Version,
		SilenceErrors:    true,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if debug {
				logger.SetLevel(log.DebugLevel)
			}
			log.SetDefault(logger)
		},
	}
)

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "config file (default: bookvoice.yml in the user config directory)")
	f.StringVar(&envFile, "env-file", "", "dotenv file (default: .env in the working directory, if present)")
	f.BoolVar(&debug, "debug", false, "log debug output")
	f.String("output", "", "root directory for book folders (EPUB_OUTPUT_PATH)")
	f.String("voice", "", "voice label used in file names (VOICE)")
	f.String("tts-url", "", "MeloTTS endpoint (MELOTTS_URL)")
	f.Float64("speed", 0, "speech speed (MELOTTS_SPEED)")
	f.String("locale", "", "text normalization locale: es or en (NORMALIZER_LOCALE)")
	f.String("cache-dir", "", "audio cache directory, empty disables the cache (CACHE_DIR)")
	f.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	rootCmd.AddCommand(convertCmd, watchCmd, normalizeCmd, configCmd, manCmd)
}

// loadConfig resolves the configuration for cmd and applies its log level.
func loadConfig(cmd *cobra.Command) (*config.Loaded, error) {
	cfg, err := config.Load(config.Options{
		File:    configFile,
		EnvFile: envFile,
		Flags:   cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	if !debug {
		logger.SetLevel(cfg.Level())
	}
	if cfg.File != "" {
		logger.Debug("using configuration file", "path", cfg.File)
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failMark, err)
		os.Exit(1)
	}
}
