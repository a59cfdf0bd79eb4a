package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// TeeHandler duplicates every log record to multiple slog handlers.
// It is used to keep a terse console output while writing a complete
// Debug-level trail to a run log file.
//
// Design decision: We use a handler fan-out rather than an io.MultiWriter
// because:
//  1. Each destination keeps its own level filter (console Info, file Debug)
//  2. Each destination keeps its own format (text console, JSON file)
//  3. It integrates seamlessly with standard slog APIs
type TeeHandler struct {
	// handlers are the underlying handlers that each receive every record.
	handlers []slog.Handler
}

// NewTeeHandler creates a TeeHandler that forwards records to all given
// handlers. Nil handlers are dropped.
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	kept := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			kept = append(kept, h)
		}
	}
	return &TeeHandler{handlers: kept}
}

// Enabled reports whether any underlying handler handles records at the
// given level.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every underlying handler that accepts its
// level. Errors from individual handlers are joined so one failing
// destination does not silence the others.
func (h *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a new handler with the given attributes added to every
// underlying handler.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: handlers}
}

// WithGroup returns a new handler with the given group name applied to
// every underlying handler.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &TeeHandler{handlers: handlers}
}

// NewLogger creates a console logger.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(newConsoleHandler(w, verbose))
}

// NewFileLogger creates a logger that writes human-readable output to the
// console and a full Debug-level JSON trail to the given log file. The
// file is appended to so repeated runs accumulate in one trail.
//
// The returned io.Closer owns the log file and must be closed when the
// run finishes.
func NewFileLogger(console io.Writer, path string, verbose bool) (*slog.Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	tee := NewTeeHandler(newConsoleHandler(console, verbose), fileHandler)
	return slog.New(tee), f, nil
}

// newConsoleHandler creates the text handler used for terminal output.
func newConsoleHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}
