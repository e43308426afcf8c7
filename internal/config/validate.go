package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDownload() error {
	if _, err := strconv.Atoi(c.Download.AudioQuality); err != nil {
		return fmt.Errorf("download.audio_quality must be numeric, got %q", c.Download.AudioQuality)
	}
	switch c.Download.AudioCodec {
	case "mp3", "m4a", "aac", "opus", "vorbis", "flac", "wav":
	default:
		return fmt.Errorf("download.audio_codec: unsupported codec %q", c.Download.AudioCodec)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.DefaultMaxWords < 1 {
		return errors.New("output.default_max_words must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
