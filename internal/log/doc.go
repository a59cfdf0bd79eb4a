// Package log provides the application's logging setup, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - A tee handler that duplicates records to the console and a log file
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// The console receives human-readable text output at Info level (Debug in
// verbose mode), while the log file keeps a full Debug-level trail of every
// run for later inspection of skipped retailers and parse warnings.
//
// # Usage
//
//	// Console-only logger
//	logger := log.NewLogger(os.Stderr, verbose)
//
//	// Console plus persistent file trail
//	logger, closer, err := log.NewFileLogger(os.Stderr, "run.log", verbose)
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	slog.SetDefault(logger)
package log
