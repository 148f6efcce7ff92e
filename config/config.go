// Package config loads bookvoice settings from an optional YAML file, a .env
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gaurav-prasanna/bookvoice/core/normalize"
	"github.com/gaurav-prasanna/bookvoice/core/synth"
)

// Config is the validated process configuration.
type Config struct {
	OutputPath string  `env:"EPUB_OUTPUT_PATH,required,notEmpty"`
	Version    string  `env:"VERSION,required,notEmpty"`
	Voice      string  `env:"VOICE,required,notEmpty"`
	TTS        string  `env:"TTS,required,notEmpty"`
	Speed      float64 `env:"MELOTTS_SPEED,required,notEmpty"`
	Language   string  `env:"MELOTTS_LANGUAGE,required,notEmpty"`
	SpeakerID  string  `env:"MELOTTS_SPEAKER_ID,required,notEmpty"`
	URL        string  `env:"MELOTTS_URL,required,notEmpty"`

	Timeout           time.Duration `env:"SYNTH_TIMEOUT"             envDefault:"10m"`
	RequestsPerMinute int           `env:"SYNTH_REQUESTS_PER_MINUTE" envDefault:"0"`

	CacheDir       string `env:"CACHE_DIR"`
	CacheMaxSizeMB int64  `env:"CACHE_MAX_SIZE_MB" envDefault:"1024"`

	Locale   string `env:"NORMALIZER_LOCALE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Keys lists every configuration key in the order they are documented.
var Keys = []string{
	"EPUB_OUTPUT_PATH",
	"VERSION",
	"VOICE",
	"TTS",
	"MELOTTS_SPEED",
	"MELOTTS_LANGUAGE",
	"MELOTTS_SPEAKER_ID",
	"MELOTTS_URL",
	"SYNTH_TIMEOUT",
	"SYNTH_REQUESTS_PER_MINUTE",
	"CACHE_DIR",
	"CACHE_MAX_SIZE_MB",
	"NORMALIZER_LOCALE",
	"LOG_LEVEL",
}

// Synth returns the speech backend parameters.
func (c *Config) Synth() synth.Config {
	return synth.Config{
		URL:               c.URL,
		Speed:             c.Speed,
		Language:          c.Language,
		SpeakerID:         c.SpeakerID,
		Timeout:           c.Timeout,
		RequestsPerMinute: c.RequestsPerMinute,
	}
}

// NormalizerLocale returns the text normalization locale, taken from
// NORMALIZER_LOCALE or else from the backend language.
func (c *Config) NormalizerLocale() normalize.Locale {
	if c.Locale != "" {
		return normalize.LocaleFor(c.Locale)
	}
	return normalize.LocaleFor(c.Language)
}

// CacheBytes returns the audio cache capacity in bytes.
func (c *Config) CacheBytes() int64 {
	return c.CacheMaxSizeMB << 20
}

// Level parses LOG_LEVEL, defaulting to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (c *Config) validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("MELOTTS_URL: %q is not an http(s) URL", c.URL)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("MELOTTS_SPEED: must be positive, got %v", c.Speed)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("SYNTH_REQUESTS_PER_MINUTE: must not be negative, got %d", c.RequestsPerMinute)
	}
	if c.CacheMaxSizeMB < 0 {
		return fmt.Errorf("CACHE_MAX_SIZE_MB: must not be negative, got %d", c.CacheMaxSizeMB)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return nil
}
