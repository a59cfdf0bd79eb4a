package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flyerhub/prospektor/internal/model"
)

// JSONWriter outputs the run's records as a top-level JSON array.
// This is the output artifact contract: an array of brochure records
// with no envelope and no summary.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient and keeps the artifact format
// stable across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write serializes the report's records as a JSON array.
// An empty run produces "[]", never null, so consumers always get an array.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	records := report.Records
	if records == nil {
		records = make([]model.BrochureRecord, 0)
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// WriteFile serializes the report's records to the given file path in one
// shot, replacing any previous content. Parent directories are created as
// needed. A failure here is the fatal write error of the run: without the
// artifact the run produced no usable output.
func WriteFile(path string, report *model.RunReport) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := NewJSONWriter(f, WithPrettyPrint()).Write(report); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}
