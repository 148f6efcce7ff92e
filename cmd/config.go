package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/bookvoice/config"
)

const defaultConfig = `# Root directory for book folders.
epub_output_path: "~/Audiobooks"
# Labels used in every audio file name.
version: "v1"
voice: "es"

# Speech backend: melotts
tts: "melotts"
melotts_url: "http://localhost:8888/convert/tts"
melotts_speed: 1.0
melotts_language: "ES"
melotts_speaker_id: "ES"
# Per-chapter timeout and optional request rate limit.
synth_timeout: "10m"
synth_requests_per_minute: 0

# Synthesized audio is kept here so interrupted runs can resume cheaply.
# cache_dir: "~/.cache/bookvoice"
cache_max_size_mb: 1024

# es or en; defaults to melotts_language.
# normalizer_locale: "es"
log_level: "info"
`

var flagShow bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit or show the bookvoice config file",
	Long: paragraph(fmt.Sprintf(
		"\n%s the bookvoice config file. EDITOR decides which editor to use. If the config file doesn't exist, it will be created. With --show the resolved settings are printed instead.",
		keyword("Edit"),
	)),
	Example: paragraph("bookvoice config\nbookvoice config --config path/to/bookvoice.yml\nbookvoice config --show"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagShow {
			return showConfig(cmd)
		}

		file, err := ensureConfigFile()
		if err != nil {
			return err
		}
		c, err := editor.Cmd("bookvoice", file)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", file)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&flagShow, "show", false, "print the resolved configuration as YAML")
}

func ensureConfigFile() (string, error) {
	file := configFile
	if file == "" {
		var err error
		if file, err = config.DefaultFile(); err != nil {
			return "", err
		}
	}

	if ext := filepath.Ext(file); ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
			return "", fmt.Errorf("unable create directory: %w", err)
		}
		if err := os.WriteFile(file, []byte(defaultConfig), 0o600); err != nil {
			return "", fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("unable to stat config file: %w", err)
	}
	return file, nil
}

func showConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	values := make(map[string]string, len(cfg.Values))
	for k, v := range cfg.Values {
		values[strings.ToLower(k)] = v
	}
	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	w := cmd.OutOrStdout()
	if cfg.File != "" {
		fmt.Fprintln(w, faint("# "+cfg.File))
	}
	_, err = w.Write(out)
	return err
}
