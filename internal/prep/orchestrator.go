package prep

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/annotation"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/fileutil"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/logging"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/report"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/selection"
)

// Orchestrator drives the per-recording prep pipeline: gather coder files,
// select first/second passes, convert labels, stage the session video.
type Orchestrator struct {
	cfg      *config.Config
	lib      Library
	selector *selection.Selector
	store    *report.Store
	logger   *slog.Logger
}

// New constructs an orchestrator. store may be nil when run history should
// not be persisted (tests, one-off conversions).
func New(cfg *config.Config, lib Library, logger *slog.Logger, store *report.Store) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		lib:      lib,
		selector: selection.New(cfg),
		store:    store,
		logger:   logging.NewComponentLogger(logger, "prep"),
	}
}

// RunBatch processes every recording matching prefix and returns the batch
// report. Only output-tree setup failures abort the batch; each recording's
// failures are isolated, logged, and recorded as that recording's outcome.
func (o *Orchestrator) RunBatch(ctx context.Context, prefix string) (*BatchReport, error) {
	if err := o.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare output tree: %w", err)
	}

	seed := o.cfg.Prep.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	batch := &BatchReport{
		RunID:     uuid.NewString(),
		Pattern:   prefix,
		Seed:      seed,
		StartedAt: time.Now().UTC(),
	}
	ctx = logging.WithRunID(ctx, batch.RunID)
	logger := logging.WithContext(ctx, o.logger)

	recordings, err := o.lib.Recordings(prefix)
	if err != nil {
		return nil, fmt.Errorf("discover recordings: %w", err)
	}
	logger.Info("batch started",
		logging.String("pattern", prefix),
		logging.Int("recordings", len(recordings)),
		logging.Int64("seed", seed),
		logging.Int("workers", o.cfg.Prep.Workers),
	)

	if o.store != nil {
		if err := o.store.StartRun(ctx, &report.Run{
			ID:        batch.RunID,
			Pattern:   prefix,
			Seed:      seed,
			StartedAt: batch.StartedAt,
		}); err != nil {
			logger.Warn("persist run start failed", logging.Error(err))
		}
	}

	batch.Results = o.processAll(ctx, recordings, seed)

	for i := range batch.Results {
		result := &batch.Results[i]
		switch {
		case result.Outcome == report.OutcomeFailed:
			batch.Failed++
		case result.Outcome.Skipped():
			batch.Skipped++
		default:
			batch.Processed++
		}
		if o.store != nil {
			if err := o.store.RecordOutcome(ctx, result.toRecord(batch.RunID)); err != nil {
				logger.Warn("persist outcome failed",
					logging.String(logging.FieldRecordingID, result.RecordingID),
					logging.Error(err),
				)
			}
		}
	}

	batch.FinishedAt = time.Now().UTC()
	if o.store != nil {
		if err := o.store.FinishRun(ctx, &report.Run{
			ID:         batch.RunID,
			Pattern:    prefix,
			Seed:       seed,
			StartedAt:  batch.StartedAt,
			FinishedAt: batch.FinishedAt,
			Processed:  batch.Processed,
			Skipped:    batch.Skipped,
			Failed:     batch.Failed,
		}); err != nil {
			logger.Warn("persist run finish failed", logging.Error(err))
		}
	}

	logger.Info("batch finished",
		logging.Int("processed", batch.Processed),
		logging.Int("skipped", batch.Skipped),
		logging.Int("failed", batch.Failed),
		logging.Duration("elapsed", batch.FinishedAt.Sub(batch.StartedAt)),
	)
	return batch, nil
}

// processAll runs recordings through the pipeline, optionally on a bounded
// worker pool. Recordings touch disjoint files, and every recording gets an
// independent rand source derived from the batch seed, so the schedule has
// no effect on assignments.
func (o *Orchestrator) processAll(ctx context.Context, recordings []string, seed int64) []RecordingResult {
	results := make([]RecordingResult, len(recordings))

	workers := o.cfg.Prep.Workers
	if workers > len(recordings) {
		workers = len(recordings)
	}
	if workers <= 1 {
		for i, recordingID := range recordings {
			results[i] = o.processRecording(ctx, recordingID, recordingRand(seed, recordingID))
		}
		return results
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				recordingID := recordings[i]
				results[i] = o.processRecording(ctx, recordingID, recordingRand(seed, recordingID))
			}
		}()
	}
	for i := range recordings {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results
}

// recordingRand derives a deterministic per-recording rand source from the
// batch seed, keeping shuffles reproducible under any worker interleaving.
func recordingRand(seed int64, recordingID string) *rand.Rand {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(recordingID))
	return rand.New(rand.NewPCG(uint64(seed), hasher.Sum64()))
}

func (o *Orchestrator) processRecording(ctx context.Context, recordingID string, rng *rand.Rand) RecordingResult {
	ctx = logging.WithRecordingID(ctx, recordingID)
	logger := logging.WithContext(ctx, o.logger)
	result := RecordingResult{RecordingID: recordingID}

	paths, err := o.lib.CoderFiles(recordingID)
	if err != nil {
		logger.Error("gather coder files failed", logging.Error(err))
		result.Outcome = report.OutcomeFailed
		result.Detail = err.Error()
		return result
	}
	if len(paths) == 0 {
		logger.Info("skipping recording", logging.String(logging.FieldOutcome, string(report.OutcomeNoCoderFiles)))
		result.Outcome = report.OutcomeNoCoderFiles
		return result
	}

	candidates := make([]selection.Candidate, 0, len(paths))
	var loadFailures []string
	for _, path := range paths {
		cf, err := annotation.Load(path)
		if err != nil {
			// Scoped to this file: the recording continues on its siblings.
			logger.Warn("unreadable coder file", logging.String("path", path), logging.Error(err))
			loadFailures = append(loadFailures, filepath.Base(path))
			continue
		}
		candidates = append(candidates, selection.Candidate{
			Coder:   cf.Coder,
			Path:    path,
			Records: cf.Len(),
		})
	}
	if len(candidates) == 0 {
		result.Outcome = report.OutcomeFailed
		result.Detail = "no readable coder files: " + strings.Join(loadFailures, ", ")
		return result
	}

	expectedFrames, haveFrames := o.lib.FrameCount(recordingID)
	if !haveFrames {
		expectedFrames = 0
	}

	selected := o.selector.Select(candidates, expectedFrames, rng)
	o.logSelection(logger, selected)
	if selected.Err != nil {
		result.Outcome = selectionOutcome(selected.Err)
		result.Detail = selectionDetail(selected)
		logger.Info("skipping recording", logging.String(logging.FieldOutcome, string(result.Outcome)))
		return result
	}

	converted := 0
	var conversionFailures []string
	for _, assignment := range selected.Assignments() {
		dst := filepath.Join(o.cfg.CodingDir(assignment.Rank), recordingID+".csv")
		rows, err := annotation.ConvertFile(assignment.Candidate.Path, dst, expectedFrames)
		if err != nil {
			// One pass failing must not block the other pass.
			logger.Error("conversion failed",
				logging.String(logging.FieldCoder, assignment.Candidate.Coder),
				logging.String(logging.FieldRank, string(assignment.Rank)),
				logging.Error(err),
			)
			conversionFailures = append(conversionFailures,
				fmt.Sprintf("%s (%s): %v", assignment.Candidate.Coder, assignment.Rank, err))
			continue
		}
		logger.Info("labels converted",
			logging.String(logging.FieldCoder, assignment.Candidate.Coder),
			logging.String(logging.FieldRank, string(assignment.Rank)),
			logging.Int("rows", rows),
		)
		switch assignment.Rank {
		case config.RankFirst:
			result.FirstCoder = assignment.Candidate.Coder
		case config.RankSecond:
			result.SecondCoder = assignment.Candidate.Coder
		}
		converted++
	}
	if converted == 0 {
		result.Outcome = report.OutcomeFailed
		result.Detail = "all conversions failed: " + strings.Join(conversionFailures, "; ")
		return result
	}
	if len(conversionFailures) > 0 {
		result.Detail = "partial conversion: " + strings.Join(conversionFailures, "; ")
	}

	videoFile, err := o.stageVideo(ctx, recordingID)
	switch {
	case errors.Is(err, errVideoMissing):
		// Label CSVs are retained even without a video asset.
		logger.Warn("no video asset found")
		result.Outcome = report.OutcomeDonePartial
	case err != nil:
		logger.Error("video staging failed", logging.Error(err))
		result.Outcome = report.OutcomeFailed
		result.Detail = joinDetail(result.Detail, err.Error())
	default:
		result.Outcome = report.OutcomeDone
		result.VideoFile = videoFile
	}
	return result
}

var errVideoMissing = errors.New("video missing")

// stageVideo copies the recording's lexicographically-last video file into
// the output tree. The last name sorts highest because re-captures append
// suffixes, so it is the most recent and most complete take.
func (o *Orchestrator) stageVideo(ctx context.Context, recordingID string) (string, error) {
	videos, err := o.lib.VideoFiles(recordingID)
	if err != nil {
		return "", fmt.Errorf("enumerate videos: %w", err)
	}
	if len(videos) == 0 {
		return "", errVideoMissing
	}

	src := videos[len(videos)-1]
	dst := filepath.Join(o.cfg.StagedVideosDir(), recordingID+".mp4")
	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		return "", fmt.Errorf("stage video %s: %w", filepath.Base(src), err)
	}
	logging.WithContext(ctx, o.logger).Info("video staged",
		logging.String("source", filepath.Base(src)),
		logging.Int("available", len(videos)),
	)
	return filepath.Base(src), nil
}

func (o *Orchestrator) logSelection(logger *slog.Logger, result selection.Result) {
	if len(result.Excluded) > 0 {
		logger.Info("coders excluded by alias", logging.String("coders", strings.Join(result.Excluded, ",")))
	}
	if len(result.Unfinished) > 0 {
		logger.Info("coders below completeness bar", logging.String("coders", strings.Join(result.Unfinished, ",")))
	}
	if len(result.Discarded) > 0 {
		logger.Info("surplus coders discarded", logging.String("coders", strings.Join(result.Discarded, ",")))
	}
}

func selectionOutcome(err error) report.Outcome {
	switch {
	case errors.Is(err, selection.ErrNoValidCoder):
		return report.OutcomeNoValidCoders
	case errors.Is(err, selection.ErrNoFinishedCoder):
		return report.OutcomeNoFinishedCoders
	default:
		return report.OutcomeFailed
	}
}

func selectionDetail(result selection.Result) string {
	var parts []string
	if len(result.Excluded) > 0 {
		parts = append(parts, "excluded: "+strings.Join(result.Excluded, ","))
	}
	if len(result.Unfinished) > 0 {
		parts = append(parts, "unfinished: "+strings.Join(result.Unfinished, ","))
	}
	return strings.Join(parts, "; ")
}

func joinDetail(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "; " + addition
}
