package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/packaging"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var batchName string

	cmd := &cobra.Command{
		Use:   "batch <package-dir>...",
		Short: "Assemble delivered packages into a batch drop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			batcher := packaging.NewBatcher(cfg.Paths.BatchDir, logger)
			batchDir, err := batcher.Assemble(cmd.Context(), batchName, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assembled %d package(s) into %s\n", len(args), batchDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&batchName, "name", "", "Batch directory name (default: timestamped)")
	return cmd
}
