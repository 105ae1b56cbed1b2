package prep

import (
	"time"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/report"
)

// RecordingResult is one recording's terminal state within a batch.
type RecordingResult struct {
	RecordingID string
	Outcome     report.Outcome
	Detail      string
	FirstCoder  string
	SecondCoder string
	VideoFile   string
}

func (r *RecordingResult) toRecord(runID string) *report.RecordingOutcome {
	return &report.RecordingOutcome{
		RunID:       runID,
		RecordingID: r.RecordingID,
		Outcome:     r.Outcome,
		Detail:      r.Detail,
		FirstCoder:  r.FirstCoder,
		SecondCoder: r.SecondCoder,
		VideoFile:   r.VideoFile,
	}
}

// BatchReport summarizes one batch run.
type BatchReport struct {
	RunID      string
	Pattern    string
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time

	Results []RecordingResult

	Processed int
	Skipped   int
	Failed    int
}
