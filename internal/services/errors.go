package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedPlatform marks URLs that classify to no known platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrDownload marks failures of the external download tool.
	ErrDownload = errors.New("download error")
	// ErrTranscription marks failures of the external transcription engine.
	ErrTranscription = errors.New("transcription error")
	// ErrInvariant marks malformed input reaching the chunker or renderer;
	// it indicates a caller bug rather than a user-facing condition.
	ErrInvariant = errors.New("invariant violation")
	// ErrOutput marks failures writing rendered artifacts to disk.
	ErrOutput = errors.New("output error")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging
// it with the provided marker for later classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInvariant
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Stage names the pipeline stage an error belongs to, for user-facing
// failure messages.
func Stage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedPlatform):
		return "classifying"
	case errors.Is(err, ErrDownload):
		return "downloading"
	case errors.Is(err, ErrTranscription):
		return "transcribing"
	case errors.Is(err, ErrOutput):
		return "rendering"
	case errors.Is(err, ErrConfiguration):
		return "configuring"
	case errors.Is(err, ErrInvariant):
		return "internal"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
