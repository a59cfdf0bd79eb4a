package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/flyerhub/prospektor/internal/model"
)

// SimpleWriter outputs a human-readable run summary.
// Plain ASCII formatting so the output pipes cleanly to files and tools.
type SimpleWriter struct {
	baseWriter

	// showWarnings includes the per-anomaly warning list in the output.
	showWarnings bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithWarnings includes the individual warnings in the summary.
func WithWarnings(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showWarnings = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary()

	var sb strings.Builder
	sb.WriteString("PROSPEKTOR RUN SUMMARY\n")
	sb.WriteString("======================\n")
	fmt.Fprintf(&sb, "Started:             %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:            %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "Retailers found:     %d\n", summary.RetailersFound)
	fmt.Fprintf(&sb, "Retailers processed: %d\n", summary.RetailersProcessed)
	fmt.Fprintf(&sb, "Retailers skipped:   %d\n", summary.RetailersSkipped)
	fmt.Fprintf(&sb, "Records written:     %d\n", summary.RecordsWritten)
	fmt.Fprintf(&sb, "Warnings:            %d\n", summary.WarningCount)

	if summary.EmptyRetailerList {
		sb.WriteString("\nNOTE: the landing page listed no retailers.\n")
	}

	if w.showWarnings && len(report.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", warning)
		}
	}

	return io.WriteString(w.output, sb.String())
}
