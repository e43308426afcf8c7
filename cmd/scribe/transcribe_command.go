package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/deps"
	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/pipeline"
	"scribe/internal/preflight"
	"scribe/internal/transcript"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var split bool
	var maxWords int
	var formatName string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "transcribe <url>",
		Short: "Download a video's audio and write its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := transcript.ParseFormat(formatName)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			if skipPreflight {
				// The flag waives directory and disk checks, not the tools
				// the run cannot start without.
				statuses := deps.CheckBinaries(preflight.Requirements(cfg))
				if missing := deps.MissingRequired(statuses); len(missing) > 0 {
					for _, status := range missing {
						fmt.Fprintf(cmd.ErrOrStderr(), "missing: %s: %s\n", status.Name, status.Detail)
					}
					return errors.New("required tools are missing; --skip-preflight does not waive them")
				}
			} else if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
				for _, check := range failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", check.Name, check.Detail)
				}
				return errors.New("preflight checks failed; fix the reported issues or rerun with --skip-preflight")
			}

			opts := make([]pipeline.Option, 0, 1)
			if cfg.History.Enabled {
				store, err := history.Open(cfg)
				if err != nil {
					logger.Warn("history store unavailable; run will not be recorded", logging.Error(err))
				} else {
					defer store.Close()
					opts = append(opts, pipeline.WithHistory(store))
				}
			}

			result, err := pipeline.New(cfg, logger, opts...).Run(cmd.Context(), pipeline.Request{
				URL:        args[0],
				OutputPath: outputPath,
				Split:      split,
				MaxWords:   maxWords,
				Format:     format,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcribed %s video %s (%d segments)\n",
				result.Reference.Platform.Display(), result.Reference.VideoID, result.Segments)
			for _, path := range result.Outputs {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Transcript path (defaults to <platform>_<video-id> plus the format extension)")
	cmd.Flags().BoolVar(&split, "split", false, "Split the transcript into word-count bounded part files")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Maximum words per part when splitting (0 uses the configured default)")
	cmd.Flags().StringVar(&formatName, "format", "txt", "Transcript format: txt or srt")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before running")
	return cmd
}
