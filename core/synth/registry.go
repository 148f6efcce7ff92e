package synth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gaurav-prasanna/bookvoice/core"
)

// Factory builds a synthesizer from its configuration.
type Factory func(cfg Config, logger *log.Logger) core.Synthesizer

var factories = map[string]Factory{
	"MELOTTS": func(cfg Config, logger *log.Logger) core.Synthesizer {
		return NewMeloTTS(cfg, logger)
	},
}

// New returns the synthesizer registered under name (case-insensitive).
func New(name string, cfg Config, logger *log.Logger) (core.Synthesizer, error) {
	f, ok := factories[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", core.ErrUnknownSynthesizer, name, strings.Join(Names(), ", "))
	}
	return f(cfg, logger), nil
}

// Names lists the registered synthesizer names.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
