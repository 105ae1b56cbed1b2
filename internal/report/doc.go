// Package report persists batch run history and per-recording outcomes in a
// SQLite database so the CLI can show what the last prep run did and why
// individual recordings were skipped.
package report
