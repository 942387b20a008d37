// Package logging constructs the application's slog logger with either a
// human-oriented console handler or machine-readable JSON output, optionally
// tee'd to a log file.
package logging
