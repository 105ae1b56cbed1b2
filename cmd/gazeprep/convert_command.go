package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/annotation"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var expectedFrames int

	cmd := &cobra.Command{
		Use:         "convert <coder-file> <output-csv>",
		Short:       "Convert a single coder file into a label CSV",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := annotation.ConvertFile(args[0], args[1], expectedFrames)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d labels to %s\n", rows, args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&expectedFrames, "expected-frames", 0,
		"Reject the coder file unless it covers at least this many frames (0 disables the check)")
	return cmd
}
