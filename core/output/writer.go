// Package output handles file naming and writing for bookvoice outputs.
// Each book gets its own folder under the output root; chapter files are
// named <ordinal>-<chapter>-<version>-<synth>-<voice>.wav.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer writes audio and side files to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory and creates it.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	w, err := Resolve(outputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return w, nil
}

// Resolve is New without touching the disk, for dry runs.
func Resolve(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}
	return &Writer{OutputDir: outputDir}, nil
}

// EnsureDir creates dir and its parents.
func (w *Writer) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Write stores data at path. The bytes go to a temporary file in the same
// directory which is then renamed, so a failed write never leaves a partial
// file under the final name.
func (w *Writer) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := w.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
