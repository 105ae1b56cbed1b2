// Package annotation converts a coder's raw per-frame annotation records
// into normalized gaze label sequences.
//
// A coder file carries two parallel sequences: frame identifiers embedding a
// 1-based 6-digit counter, and raw keystroke codes. Conversion derives the
// zero-based frame index from the counter, maps every code through a total
// label table, and preserves record order exactly. Output is written
// atomically so an aborted conversion leaves no partial label file.
package annotation
