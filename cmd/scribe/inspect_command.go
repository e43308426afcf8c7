package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/services"
	"scribe/internal/videoref"
)

// newInspectCommand classifies a URL without downloading anything, so users
// can confirm how a run would behave before spending bandwidth on it.
func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <url>",
		Short:       "Show how a video URL would be classified",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := videoref.Classify(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "URL:       %s\n", args[0])
			fmt.Fprintf(out, "Platform:  %s\n", ref.Platform.Display())
			if !ref.Supported() {
				return services.Wrap(services.ErrUnsupportedPlatform, "classifying", "inspect",
					fmt.Sprintf("no supported platform recognized in %q", args[0]), nil)
			}
			videoID := ref.VideoID
			if videoID == "" {
				videoID = "(none)"
			}
			fmt.Fprintf(out, "Video ID:  %s\n", videoID)
			fmt.Fprintf(out, "Output:    %s\n", ref.DefaultOutputName())
			return nil
		},
	}
}
