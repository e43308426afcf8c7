package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set cookies_from_browser or BILIBILI_COOKIE if the platforms require sign-in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path:       %s (exists: %s)\n", path, yesNo(exists))
			fmt.Fprintf(out, "Work dir:          %s\n", cfg.Paths.WorkDir)
			fmt.Fprintf(out, "Log dir:           %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Output dir:        %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "Audio codec:       %s @ %s kbps\n", cfg.Download.AudioCodec, cfg.Download.AudioQuality)
			fmt.Fprintf(out, "Browser cookies:   %s\n", cfg.Download.CookiesFromBrowser)
			fmt.Fprintf(out, "Bilibili cookie:   %s\n", yesNo(strings.TrimSpace(cfg.Download.BilibiliCookie) != ""))
			fmt.Fprintf(out, "Whisper model:     %s\n", cfg.Whisper.Model)
			fmt.Fprintf(out, "CUDA enabled:      %s\n", yesNo(cfg.Whisper.CUDAEnabled))
			fmt.Fprintf(out, "Default max words: %d\n", cfg.Output.DefaultMaxWords)
			fmt.Fprintf(out, "Clean existing:    %s\n", yesNo(cfg.Output.CleanExisting))
			fmt.Fprintf(out, "History enabled:   %s\n", yesNo(cfg.History.Enabled))
			fmt.Fprintf(out, "Log format/level:  %s/%s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}
