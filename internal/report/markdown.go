package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/flyerhub/prospektor/internal/model"
)

// MarkdownWriter outputs the run summary as GitHub Flavored Markdown,
// suitable for pasting into issues or docs.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary()
	md := markdown.NewMarkdown(w.output)

	md.H1("Prospektor Run Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
			{"Retailers found", strconv.Itoa(summary.RetailersFound)},
			{"Retailers processed", strconv.Itoa(summary.RetailersProcessed)},
			{"Retailers skipped", strconv.Itoa(summary.RetailersSkipped)},
			{"Records written", strconv.Itoa(summary.RecordsWritten)},
			{"Warnings", strconv.Itoa(summary.WarningCount)},
		},
	})
	md.PlainText("")

	if summary.EmptyRetailerList {
		md.Note("The landing page listed no retailers.")
		md.PlainText("")
	}

	if len(report.Warnings) > 0 {
		md.H2("Warnings")
		items := make([]string, 0, len(report.Warnings))
		for _, warning := range report.Warnings {
			items = append(items, warning.String())
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
