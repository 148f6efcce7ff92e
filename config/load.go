package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// Name is the application name used for config directories and files.
const Name = "bookvoice"

// Options tells Load where to look.
type Options struct {
	// File is an explicit YAML config file. When empty the default config
	// directories are searched and a missing file is not an error.
	File string
	// EnvFile is a dotenv file. When empty ".env" in the working directory is
	// read if present.
	EnvFile string
	// Flags are mapped to keys through FlagKeys. Only flags the user changed
	// take effect.
	Flags *pflag.FlagSet
	// Environ replaces os.Environ, mainly for tests.
	Environ []string
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"output":    "EPUB_OUTPUT_PATH",
	"voice":     "VOICE",
	"tts-url":   "MELOTTS_URL",
	"speed":     "MELOTTS_SPEED",
	"locale":    "NORMALIZER_LOCALE",
	"cache-dir": "CACHE_DIR",
	"log-level": "LOG_LEVEL",
}

// Loaded is a Config plus where its values came from.
type Loaded struct {
	*Config
	// File is the config file that was read, if any.
	File string
	// Values holds the raw value of every set key.
	Values map[string]string
}

// Load resolves the configuration. Every missing or empty required key is
// reported in a single error wrapping core.ErrConfigMissing.
func Load(opts Options) (*Loaded, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if opts.File != "" {
		file, err := homedir.Expand(opts.File)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", opts.File, err)
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		dirs, err := Dirs()
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
		v.SetConfigName(Name)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	layer := make(map[string]any, len(dotenv))
	for k, val := range dotenv {
		layer[strings.ToLower(k)] = val
	}
	if err := v.MergeConfigMap(layer); err != nil {
		return nil, fmt.Errorf("merging %s: %w", envFileName(opts.EnvFile), err)
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	environment := env.ToMap(environ)
	for _, key := range Keys {
		if val, ok := environment[key]; ok {
			v.Set(strings.ToLower(key), val)
		}
	}
	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				v.Set(strings.ToLower(key), f.Value.String())
			}
		}
	}

	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		if v.IsSet(strings.ToLower(key)) {
			values[key] = v.GetString(strings.ToLower(key))
		}
	}

	cfg, err := parse(values)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, File: v.ConfigFileUsed(), Values: values}, nil
}

func parse(values map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: values}); err != nil {
		return nil, missing(err)
	}

	for _, p := range []*string{&cfg.OutputPath, &cfg.CacheDir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", *p, err)
		}
		*p = expanded
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// missing turns the parser's aggregate error into one ErrConfigMissing error
// naming every absent key. Other parse failures are returned as they are.
func missing(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return err
	}

	var keys []string
	var other []error
	for _, e := range agg.Errors {
		var notSet env.EnvVarIsNotSetError
		var empty env.EmptyEnvVarError
		switch {
		case errors.As(e, &notSet):
			keys = append(keys, notSet.Key)
		case errors.As(e, &empty):
			keys = append(keys, empty.Key)
		default:
			other = append(other, e)
		}
	}
	if len(keys) > 0 {
		return fmt.Errorf("%w: %s", core.ErrConfigMissing, strings.Join(keys, ", "))
	}
	return errors.Join(other...)
}

func readEnvFile(name string) (map[string]string, error) {
	path := envFileName(name)
	f, err := os.Open(path)
	if err != nil {
		if name == "" && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	defer f.Close()

	vals, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return vals, nil
}

func envFileName(name string) string {
	if name == "" {
		return ".env"
	}
	if expanded, err := homedir.Expand(name); err == nil {
		return expanded
	}
	return name
}

// Dirs returns the directories searched for bookvoice.yml, most specific
// first.
func Dirs() ([]string, error) {
	scope := gap.NewScope(gap.User, Name)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("finding config directories: %w", err)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, Name)}, dirs...)
	}
	if c := os.Getenv("BOOKVOICE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// DefaultFile returns the path a new config file is created at.
func DefaultFile() (string, error) {
	dirs, err := Dirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs[0], Name+".yml"), nil
}
