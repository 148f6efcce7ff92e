// Package pipeline drives one document through the conversion:
// open → derive output folder → per chapter extract → synthesize → write.
//
// Chapters are processed strictly one after another. A failing chapter is
// recorded and skipped; only a document that cannot be opened aborts a run.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/extract"
	"github.com/gaurav-prasanna/bookvoice/core/output"
	"github.com/gaurav-prasanna/bookvoice/core/sanitize"
)

// ReportBase is the file name (without extension) of run reports.
const ReportBase = "report"

// Options configures an Orchestrator.
type Options struct {
	Formats   Formats
	Extractor core.Extractor
	Synth     core.Synthesizer
	Writer    core.FileWriter

	OutputRoot string
	Version    string
	Voice      string

	// DryRun extracts and names chapters without synthesizing or writing.
	DryRun bool
	// Transcript, when set, is rendered next to every written chapter.
	Transcript core.TranscriptRenderer
	// Reports are rendered into the book folder after the run.
	Reports []core.ReportRenderer
	// OnOutcome is called after each chapter.
	OnOutcome func(core.Outcome)
}

// Orchestrator converts documents into per-chapter audio files.
type Orchestrator struct {
	opts   Options
	logger *log.Logger
}

// New creates an Orchestrator. A nil logger uses the default logger.
func New(opts Options, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		opts:   opts,
		logger: logger.WithPrefix("pipeline"),
	}
}

// cacheAware is implemented by synthesizers that can tell whether a text is
// already cached.
type cacheAware interface {
	Has(text string) bool
}

// Run converts one document. Chapter failures are folded into the report.
// A document that cannot be opened returns a *core.DocumentError along with
// a report in StateFailed. Cancelling ctx stops before the next chapter and
// returns the partial report with the context error.
func (o *Orchestrator) Run(ctx context.Context, path string) (*core.Report, error) {
	rep := &core.Report{
		Source:    path,
		State:     core.StateOpening,
		StartedAt: time.Now(),
	}
	o.logger.Info("processing", "file", path)

	doc, err := o.opts.Formats.Open(ctx, path)
	if err != nil {
		return o.fail(rep, err)
	}
	defer doc.Close()

	rep.State = core.StateDerivingOutputFolder
	rep.Title = doc.Title()
	rep.OutputDir = filepath.Join(o.opts.OutputRoot, FolderName(doc.Title(), path))
	rep.Width = output.Width(doc.DeclaredChapters())
	if !o.opts.DryRun {
		if err := o.opts.Writer.EnsureDir(rep.OutputDir); err != nil {
			return o.fail(rep, err)
		}
	}

	rep.State = core.StateIteratingChapters
	ordinal := 1
	for _, ch := range doc.Chapters() {
		if ctx.Err() != nil {
			o.logger.Warn("cancelled", "remaining", len(doc.Chapters())-len(rep.Outcomes))
			break
		}

		outcome := o.chapter(ctx, doc, ch, ordinal, rep)
		if outcome.Status != core.StatusSkipped {
			ordinal++
		}
		rep.Outcomes = append(rep.Outcomes, outcome)
		if o.opts.OnOutcome != nil {
			o.opts.OnOutcome(outcome)
		}
	}

	rep.State = core.StateDone
	rep.FinishedAt = time.Now()
	o.writeReports(rep)

	o.logger.Info("finished",
		"file", path,
		"written", len(rep.Written()),
		"skipped", len(rep.Skipped()),
		"audio", humanize.Bytes(uint64(rep.Bytes())),
		"took", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond),
	)
	return rep, ctx.Err()
}

// FolderName derives the book folder from the title, falling back to the
// file name. The result is sanitized and lowercased.
func FolderName(title, path string) string {
	if name := sanitize.Title(title, true); name != "" {
		return name
	}
	if name := sanitize.Filename(filepath.Base(path), true); name != "" {
		return name
	}
	return "book"
}

func (o *Orchestrator) fail(rep *core.Report, err error) (*core.Report, error) {
	rep.State = core.StateFailed
	rep.FinishedAt = time.Now()
	docErr := &core.DocumentError{Path: rep.Source, Cause: err}
	o.logger.Error("document failed", "file", rep.Source, "err", err)
	return rep, docErr
}

func (o *Orchestrator) chapter(ctx context.Context, doc core.Document, ch core.Chapter, ordinal int, rep *core.Report) core.Outcome {
	start := time.Now()
	out := core.Outcome{ChapterID: ch.ID, Title: ch.Title}

	text, err := o.opts.Extractor.Extract(ctx, doc, ch.ID)
	if err != nil {
		return o.skip(out, core.NewChapterError(core.StageExtract, ch, err), start)
	}

	var raw string
	if ch.Title == "" || o.opts.Transcript != nil {
		// Already read once by the extractor; a failure here only loses the
		// headline and transcript markup.
		raw, _ = doc.RawText(ctx, ch.ID)
	}
	name := ch.Title
	if name == "" {
		name = extract.Headline(raw)
	}
	if name == "" {
		name = ch.ID
	}

	target := output.Target{
		Ordinal: ordinal,
		Width:   rep.Width,
		Chapter: name,
		Version: o.opts.Version,
		Synth:   o.opts.Synth.Name(),
		Voice:   o.opts.Voice,
	}
	out.Ordinal = ordinal
	out.Path = target.Path(rep.OutputDir)

	if o.opts.DryRun {
		out.Status = core.StatusPlanned
		out.Duration = time.Since(start)
		o.logger.Info("would write", "chapter", ch.ID, "file", out.Path, "chars", len(text))
		return out
	}

	o.logger.Info("start", "ordinal", target.Prefix(), "chapter", ch.ID, "title", ch.Title)
	if c, ok := o.opts.Synth.(cacheAware); ok {
		out.Cached = c.Has(text)
	}
	audio, err := o.opts.Synth.Synthesize(ctx, text)
	if err != nil {
		return o.skip(out, core.NewChapterError(core.StageSynthesize, ch, err), start)
	}
	if err := o.opts.Writer.Write(out.Path, audio); err != nil {
		return o.skip(out, core.NewChapterError(core.StagePersist, ch, err), start)
	}

	out.Status = core.StatusWritten
	out.Bytes = len(audio)
	out.Duration = time.Since(start)
	o.logger.Info("finish",
		"ordinal", target.Prefix(),
		"chapter", ch.ID,
		"file", filepath.Base(out.Path),
		"size", humanize.Bytes(uint64(len(audio))),
		"cached", out.Cached,
	)

	if o.opts.Transcript != nil {
		o.writeTranscript(target, rep, core.Transcript{
			BookTitle: rep.Title,
			Ordinal:   target.Prefix(),
			ChapterID: ch.ID,
			Title:     name,
			Raw:       extract.Body(raw),
			Text:      text,
		})
	}
	return out
}

func (o *Orchestrator) skip(out core.Outcome, err *core.ChapterError, start time.Time) core.Outcome {
	out.Status = core.StatusSkipped
	out.Ordinal = 0
	out.Path = ""
	out.Cached = false
	out.Stage = err.Stage
	out.Reason = err.Cause.Error()
	out.Duration = time.Since(start)

	kv := []any{"chapter", err.ChapterID, "title", err.Title, "stage", err.Stage, "code", err.Code(), "err", err.Cause}
	if errors.Is(err, core.ErrEmptyChapter) {
		o.logger.Warn("skipping chapter", kv...)
	} else {
		o.logger.Error("skipping chapter", kv...)
	}
	return out
}

func (o *Orchestrator) writeTranscript(target output.Target, rep *core.Report, t core.Transcript) {
	r := o.opts.Transcript
	data, err := r.Render(t)
	if err != nil {
		o.logger.Warn("rendering transcript", "chapter", t.ChapterID, "err", err)
		return
	}
	if err := o.opts.Writer.Write(target.SidePath(rep.OutputDir, r.Extension()), data); err != nil {
		o.logger.Warn("writing transcript", "chapter", t.ChapterID, "err", err)
	}
}

func (o *Orchestrator) writeReports(rep *core.Report) {
	if o.opts.DryRun {
		return
	}
	for _, r := range o.opts.Reports {
		data, err := r.Render(rep)
		if err != nil {
			o.logger.Warn("rendering report", "err", err)
			continue
		}
		path := filepath.Join(rep.OutputDir, ReportBase+r.Extension())
		if err := o.opts.Writer.Write(path, data); err != nil {
			o.logger.Warn("writing report", "file", path, "err", err)
		}
	}
}
