package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the outcome of the latest batch run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := report.Open(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID == "" {
				run, err := store.LatestRun(cmd.Context())
				if err != nil {
					return fmt.Errorf("load latest run: %w", err)
				}
				if run == nil {
					fmt.Fprintln(out, "No batch runs recorded yet")
					return nil
				}
				runID = run.ID
				printRunHeader(cmd, run)
			}

			outcomes, err := store.Outcomes(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("load outcomes: %w", err)
			}
			if len(outcomes) == 0 {
				fmt.Fprintln(out, "No recordings in this run")
				return nil
			}

			rows := make([][]string, 0, len(outcomes))
			for _, outcome := range outcomes {
				rows = append(rows, []string{
					outcome.RecordingID,
					string(outcome.Outcome),
					outcome.FirstCoder,
					outcome.SecondCoder,
					outcome.VideoFile,
					outcome.Detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Recording", "Outcome", "First", "Second", "Video", "Detail"},
				rows, nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show a specific run id instead of the latest")
	return cmd
}

func printRunHeader(cmd *cobra.Command, run *report.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Pattern:  %q\n", run.Pattern)
	fmt.Fprintf(out, "Seed:     %s\n", strconv.FormatInt(run.Seed, 10))
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Finished: %s\n", run.FinishedAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintf(out, "Counts:   %d processed, %d skipped, %d failed\n",
		run.Processed, run.Skipped, run.Failed)
}
