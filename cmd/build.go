package cmd

import (
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/bookvoice/config"
	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/cache"
	"github.com/gaurav-prasanna/bookvoice/core/extract"
	"github.com/gaurav-prasanna/bookvoice/core/normalize"
	"github.com/gaurav-prasanna/bookvoice/core/output"
	"github.com/gaurav-prasanna/bookvoice/core/pipeline"
	"github.com/gaurav-prasanna/bookvoice/core/render"
	"github.com/gaurav-prasanna/bookvoice/core/synth"
)

// runOptions are the per-command pipeline settings.
type runOptions struct {
	dryRun        bool
	transcript    string
	reportFormats []string
	onOutcome     func(core.Outcome)
}

// app is a fully wired pipeline. Close releases the audio cache.
type app struct {
	cfg     *config.Loaded
	formats pipeline.Formats
	orch    *pipeline.Orchestrator
	writer  *output.Writer
	cache   *cache.Disk
}

func newApp(cfg *config.Loaded, opts runOptions) (*app, error) {
	a := &app{cfg: cfg, formats: pipeline.DefaultFormats(logger)}

	s, err := synth.New(cfg.TTS, cfg.Synth(), logger)
	if err != nil {
		return nil, err
	}
	if cfg.CacheDir != "" && !opts.dryRun {
		a.cache, err = cache.Open(cfg.CacheDir, cfg.CacheBytes())
		if err != nil {
			return nil, fmt.Errorf("opening audio cache: %w", err)
		}
		s = synth.NewCached(s, a.cache, logger)
		logger.Debug("audio cache enabled", "dir", cfg.CacheDir, "entries", a.cache.Stats().Items)
	}

	if opts.dryRun {
		a.writer, err = output.Resolve(cfg.OutputPath)
	} else {
		a.writer, err = output.New(cfg.OutputPath)
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}

	var transcript core.TranscriptRenderer
	if opts.transcript != "" {
		transcript, err = render.Transcript(opts.transcript)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	var reports []core.ReportRenderer
	for _, f := range opts.reportFormats {
		r, err := render.Report(f)
		if err != nil {
			a.Close()
			return nil, err
		}
		reports = append(reports, r)
	}

	normalizer := normalize.New(cfg.NormalizerLocale())
	a.orch = pipeline.New(pipeline.Options{
		Formats:    a.formats,
		Extractor:  extract.New(normalizer, logger),
		Synth:      s,
		Writer:     a.writer,
		OutputRoot: a.writer.OutputDir,
		Version:    cfg.Version,
		Voice:      cfg.Voice,
		DryRun:     opts.dryRun,
		Transcript: transcript,
		Reports:    reports,
		OnOutcome:  opts.onOutcome,
	}, logger)
	return a, nil
}

// Close releases the audio cache, if any.
func (a *app) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// documentFailed reports whether err means the whole document was lost.
func documentFailed(err error) bool {
	var docErr *core.DocumentError
	return errors.As(err, &docErr)
}
