// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the command line (console encoding,
// colored levels) and for the HTTP server (json encoding).
//
// # Correlation
//
// WithRayID attaches the request id set by the rayid middleware to the log entry.
// WithRunID attaches the id of a roster run, the same id that is stored in the
// run history, so log lines and history rows can be matched.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Roster updated", zap.Int("full", 120))
package logger
