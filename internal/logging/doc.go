// Package logging assembles structured slog loggers and formatting helpers
// used across the prep pipeline.
//
// It owns the console/JSON handler wiring, centralizes level plumbing, and
// exposes context-aware helpers so batch code can automatically tag log lines
// with recording and run identifiers. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
