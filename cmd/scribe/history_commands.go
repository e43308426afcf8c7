package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"scribe/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded transcription runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						strconv.FormatInt(run.ID, 10),
						humanize.Time(run.CreatedAt),
						run.Platform,
						run.VideoID,
						string(run.Status),
						runDetail(run),
					})
				}

				if isatty.IsTerminal(os.Stdout.Fd()) {
					fmt.Fprintln(out, renderRunTable(rows))
					return nil
				}
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("load run %d: %w", id, err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:       %s\n", run.RunID)
				fmt.Fprintf(out, "URL:       %s\n", run.URL)
				fmt.Fprintf(out, "Platform:  %s\n", run.Platform)
				fmt.Fprintf(out, "Video ID:  %s\n", run.VideoID)
				fmt.Fprintf(out, "Status:    %s\n", run.Status)
				fmt.Fprintf(out, "Started:   %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Updated:   %s\n", run.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				if run.ErrorText != "" {
					fmt.Fprintf(out, "Error:     %s\n", run.ErrorText)
				}
				for _, output := range run.Outputs {
					fmt.Fprintf(out, "Output:    %s\n", output)
				}
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}
}

func runDetail(run history.Run) string {
	if run.ErrorText != "" {
		return run.ErrorText
	}
	if len(run.Outputs) > 0 {
		detail := run.Outputs[0]
		if len(run.Outputs) > 1 {
			detail = fmt.Sprintf("%s (+%d more)", detail, len(run.Outputs)-1)
		}
		return detail
	}
	return ""
}

// withHistory opens the history store for a command and closes it afterward.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("history is disabled in the configuration")
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()
	return fn(store)
}
