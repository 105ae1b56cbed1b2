package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS batch_runs (
    id TEXT PRIMARY KEY,
    pattern TEXT NOT NULL,
    seed INTEGER NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    processed INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recording_outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES batch_runs(id) ON DELETE CASCADE,
    recording_id TEXT NOT NULL,
    outcome TEXT NOT NULL,
    detail TEXT,
    first_coder TEXT,
    second_coder TEXT,
    video_file TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recording_outcomes_run ON recording_outcomes(run_id);
`

// Store persists batch runs and per-recording outcomes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the report database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure report directory: %w", err)
	}

	dbPath := filepath.Join(dir, "prep.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records the beginning of a batch run.
func (s *Store) StartRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batch_runs (id, pattern, seed, started_at) VALUES (?, ?, ?, ?)`,
		run.ID,
		run.Pattern,
		run.Seed,
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the end time and aggregate counts on a run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE batch_runs SET finished_at = ?, processed = ?, skipped = ?, failed = ? WHERE id = ?`,
		run.FinishedAt.Format(time.RFC3339Nano),
		run.Processed,
		run.Skipped,
		run.Failed,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordOutcome persists one recording's terminal state.
func (s *Store) RecordOutcome(ctx context.Context, outcome *RecordingOutcome) error {
	if outcome == nil {
		return errors.New("outcome is nil")
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recording_outcomes (
            run_id, recording_id, outcome, detail, first_coder, second_coder, video_file, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		outcome.RecordingID,
		string(outcome.Outcome),
		nullableString(outcome.Detail),
		nullableString(outcome.FirstCoder),
		nullableString(outcome.SecondCoder),
		nullableString(outcome.VideoFile),
		outcome.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil when no run exists.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, pattern, seed, started_at, finished_at, processed, skipped, failed
         FROM batch_runs ORDER BY started_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// Outcomes returns a run's per-recording outcomes ordered by recording id.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]*RecordingOutcome, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, recording_id, outcome, detail, first_coder, second_coder, video_file, created_at
         FROM recording_outcomes WHERE run_id = ? ORDER BY recording_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*RecordingOutcome
	for rows.Next() {
		outcome, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (*Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt sql.NullString
	)
	if err := scanner.Scan(
		&run.ID, &run.Pattern, &run.Seed, &startedAt, &finishedAt,
		&run.Processed, &run.Skipped, &run.Failed,
	); err != nil {
		return nil, err
	}
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = started
	if finishedAt.Valid && finishedAt.String != "" {
		finished, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = finished
	}
	return &run, nil
}

func scanOutcome(scanner rowScanner) (*RecordingOutcome, error) {
	var (
		outcome     RecordingOutcome
		outcomeName string
		detail      sql.NullString
		firstCoder  sql.NullString
		secondCoder sql.NullString
		videoFile   sql.NullString
		createdAt   string
	)
	if err := scanner.Scan(
		&outcome.RunID, &outcome.RecordingID, &outcomeName, &detail,
		&firstCoder, &secondCoder, &videoFile, &createdAt,
	); err != nil {
		return nil, err
	}
	outcome.Outcome = Outcome(outcomeName)
	outcome.Detail = detail.String
	outcome.FirstCoder = firstCoder.String
	outcome.SecondCoder = secondCoder.String
	outcome.VideoFile = videoFile.String
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	outcome.CreatedAt = created
	return &outcome, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
