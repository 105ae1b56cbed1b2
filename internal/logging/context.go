package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRecordingID is the standardized structured logging key for recording identifiers.
	FieldRecordingID = "recording_id"
	// FieldCoder is the standardized structured logging key for coder names.
	FieldCoder = "coder"
	// FieldRank is the standardized structured logging key for annotation pass ranks.
	FieldRank = "rank"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldOutcome is the standardized structured logging key for per-recording outcomes.
	FieldOutcome = "outcome"
)

type contextKey int

const (
	recordingIDKey contextKey = iota
	runIDKey
)

// WithRecordingID stamps a recording identifier onto the context.
func WithRecordingID(ctx context.Context, recordingID string) context.Context {
	return context.WithValue(ctx, recordingIDKey, recordingID)
}

// WithRunID stamps a batch run identifier onto the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(recordingIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRecordingID, id))
	}
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
