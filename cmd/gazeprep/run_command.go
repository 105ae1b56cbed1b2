package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/logging"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/prep"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var seedFlag int64
	var workersFlag int
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "run [prefix]",
		Short: "Process recordings matching a prefix into the output tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Prep.Seed = seedFlag
			}
			if cmd.Flags().Changed("workers") {
				cfg.Prep.Workers = workersFlag
			}
			if cmd.Flags().Changed("output") {
				expanded, err := config.ExpandPath(outputFlag)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				cfg.Paths.OutputDir = expanded
			}

			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("prepare directories: %w", err)
			}

			// One batch at a time: concurrent runs would race on the output tree.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "gazeprep.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire batch lock: %w", err)
			}
			if !locked {
				return errors.New("another gazeprep batch is already running")
			}
			defer lock.Unlock()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := report.Open(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orchestrator := prep.New(cfg, prep.NewDiskLibrary(cfg), logger, store)
			batch, err := orchestrator.RunBatch(runCtx, prefix)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderBatchSummary(batch))
			if batch.Failed > 0 {
				return fmt.Errorf("%d recording(s) failed; see `gazeprep report` for details", batch.Failed)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Shuffle seed for coder selection (0 uses a time-based seed)")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of recordings processed in parallel")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Override the configured output directory")
	return cmd
}

func renderBatchSummary(batch *prep.BatchReport) string {
	rows := make([][]string, 0, len(batch.Results))
	for _, result := range batch.Results {
		rows = append(rows, []string{
			result.RecordingID,
			string(result.Outcome),
			result.FirstCoder,
			result.SecondCoder,
			result.VideoFile,
		})
	}
	footer := []string{
		"",
		strconv.Itoa(batch.Processed) + " processed",
		strconv.Itoa(batch.Skipped) + " skipped",
		strconv.Itoa(batch.Failed) + " failed",
		"",
	}
	return renderTable(
		[]string{"Recording", "Outcome", "First", "Second", "Video"},
		rows,
		footer,
	)
}
