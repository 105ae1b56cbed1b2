package report

import "time"

// Outcome is the terminal state of one recording within a batch run.
type Outcome string

const (
	// OutcomeDone: labels converted and video staged.
	OutcomeDone Outcome = "done"
	// OutcomeDonePartial: labels converted but no video asset was found.
	OutcomeDonePartial Outcome = "done_partial"
	// OutcomeNoCoderFiles: no candidate coder files existed.
	OutcomeNoCoderFiles Outcome = "no_coder_files"
	// OutcomeNoValidCoders: every candidate carried a reserved alias.
	OutcomeNoValidCoders Outcome = "no_valid_coders"
	// OutcomeNoFinishedCoders: no valid coder reached the completeness bar.
	OutcomeNoFinishedCoders Outcome = "no_finished_coders"
	// OutcomeFailed: an I/O or conversion failure stopped the recording.
	OutcomeFailed Outcome = "failed"
)

// Skipped reports whether the outcome produced no training data.
func (o Outcome) Skipped() bool {
	switch o {
	case OutcomeDone, OutcomeDonePartial:
		return false
	default:
		return true
	}
}

// Run describes one batch invocation.
type Run struct {
	ID         string
	Pattern    string
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Skipped    int
	Failed     int
}

// RecordingOutcome is the persisted terminal state of one recording.
type RecordingOutcome struct {
	RunID       string
	RecordingID string
	Outcome     Outcome
	Detail      string
	FirstCoder  string
	SecondCoder string
	VideoFile   string
	CreatedAt   time.Time
}
