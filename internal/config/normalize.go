package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeWhisper()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDownload() {
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	if c.Download.Format == "" {
		c.Download.Format = defaultDownloadFormat
	}
	c.Download.AudioCodec = strings.ToLower(strings.TrimSpace(c.Download.AudioCodec))
	if c.Download.AudioCodec == "" {
		c.Download.AudioCodec = defaultAudioCodec
	}
	c.Download.AudioQuality = strings.TrimSpace(c.Download.AudioQuality)
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = defaultAudioQuality
	}
	c.Download.CookiesFromBrowser = strings.ToLower(strings.TrimSpace(c.Download.CookiesFromBrowser))
	if c.Download.CookiesFromBrowser == "" {
		c.Download.CookiesFromBrowser = defaultCookiesBrowser
	}
	// The env var is the operator-facing override; config wins when set.
	if strings.TrimSpace(c.Download.BilibiliCookie) == "" {
		c.Download.BilibiliCookie = os.Getenv(bilibiliCookieEnv)
	}
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.ComputeType = strings.ToLower(strings.TrimSpace(c.Whisper.ComputeType))
	c.Whisper.Language = strings.ToLower(strings.TrimSpace(c.Whisper.Language))
	if c.Whisper.BeamSize <= 0 {
		c.Whisper.BeamSize = defaultWhisperBeamSize
	}
}

func (c *Config) normalizeOutput() {
	if c.Output.DefaultMaxWords <= 0 {
		c.Output.DefaultMaxWords = defaultMaxWords
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
