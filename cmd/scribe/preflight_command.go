package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check required tools, directories, and disk space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)
			out := cmd.OutOrStdout()
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
				}
				fmt.Fprintf(out, "%-4s %-22s %s\n", status, result.Name, result.Detail)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
