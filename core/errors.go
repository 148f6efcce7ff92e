package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrConfigMissing indicates a required configuration value is absent.
	ErrConfigMissing = errors.New("required configuration missing")

	// ErrUnknownSynthesizer indicates the configured TTS backend is not registered.
	ErrUnknownSynthesizer = errors.New("unknown synthesizer")

	// ErrUnsupportedFormat indicates the input file has no registered opener.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyChapter indicates a chapter normalized to empty text.
	ErrEmptyChapter = errors.New("chapter has no speakable text")

	// ErrChapterNotFound indicates the chapter id is not part of the document.
	ErrChapterNotFound = errors.New("chapter not found")
)

// ErrorCode identifies a failure class.
type ErrorCode string

const (
	CodeConfigMissing     ErrorCode = "CONFIG_MISSING"
	CodeDocumentOpen      ErrorCode = "DOCUMENT_OPEN"
	CodeChapterExtraction ErrorCode = "CHAPTER_EXTRACTION"
	CodeSynthesis         ErrorCode = "SYNTHESIS"
	CodePersistence       ErrorCode = "PERSISTENCE"
)

// Stage names the per-chapter step that produced an outcome.
type Stage string

const (
	StageExtract    Stage = "extract"
	StageSynthesize Stage = "synthesize"
	StagePersist    Stage = "persist"
)

// ChapterError is a recoverable failure for a single chapter.
type ChapterError struct {
	Stage     Stage
	ChapterID string
	Title     string
	Cause     error
}

// Error implements the error interface.
func (e *ChapterError) Error() string {
	return fmt.Sprintf("%s chapter %q: %v", e.Stage, e.ChapterID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ChapterError) Unwrap() error {
	return e.Cause
}

// Code maps the stage to its error class.
func (e *ChapterError) Code() ErrorCode {
	switch e.Stage {
	case StageSynthesize:
		return CodeSynthesis
	case StagePersist:
		return CodePersistence
	default:
		return CodeChapterExtraction
	}
}

// DocumentError aborts the run of one document. It does not stop the process.
type DocumentError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Code returns CodeDocumentOpen.
func (e *DocumentError) Code() ErrorCode {
	return CodeDocumentOpen
}

// NewChapterError wraps cause for the given stage and chapter.
func NewChapterError(stage Stage, ch Chapter, cause error) *ChapterError {
	return &ChapterError{
		Stage:     stage,
		ChapterID: ch.ID,
		Title:     ch.Title,
		Cause:     cause,
	}
}

// IsRecoverable reports whether err only affects a single chapter.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrUnknownSynthesizer) {
		return false
	}
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return false
	}
	return true
}
