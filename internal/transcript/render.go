package transcript

import (
	"fmt"
	"strings"
)

// Format selects the output artifact style.
type Format string

const (
	// FormatText renders one "[H:MM:SS --> H:MM:SS] text" line per segment.
	FormatText Format = "txt"
	// FormatSRT renders classic indexed subtitle blocks.
	FormatSRT Format = "srt"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "txt", "text", "":
		return FormatText, nil
	case "srt":
		return FormatSRT, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected txt or srt)", value)
	}
}

// Extension returns the file extension for the format, with leading dot.
func (f Format) Extension() string {
	if f == FormatSRT {
		return ".srt"
	}
	return ".txt"
}

// Render serializes one group into textual artifact content.
func Render(group Group, format Format) (string, error) {
	switch format {
	case FormatText:
		return RenderPlain(group), nil
	case FormatSRT:
		return RenderSRT(group), nil
	default:
		return "", fmt.Errorf("render: unsupported format %q", format)
	}
}

// RenderPlain renders a group as plain timestamped transcript lines.
// Timestamps are truncated to whole seconds.
func RenderPlain(group Group) string {
	var b strings.Builder
	for _, seg := range group {
		b.WriteString("[")
		b.WriteString(formatClock(seg.Start))
		b.WriteString(" --> ")
		b.WriteString(formatClock(seg.End))
		b.WriteString("] ")
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSRT renders a group as SRT subtitle blocks. Block indexes are
// 1-based and restart for every artifact.
func RenderSRT(group Group) string {
	var b strings.Builder
	for i, seg := range group {
		fmt.Fprintf(&b, "%d\n", i+1)
		b.WriteString(formatSRTTime(seg.Start))
		b.WriteString(" --> ")
		b.WriteString(formatSRTTime(seg.End))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// formatClock renders seconds as H:MM:SS with hours unbounded and the
// fractional part discarded.
func formatClock(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// formatSRTTime renders seconds as HH:MM:SS,mmm with milliseconds
// truncated from the sub-second remainder.
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	millis := int((seconds - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", whole/3600, whole/60%60, whole%60, millis)
}
