// Package preflight verifies the host can support a transcription run
// before any download starts: required binaries on PATH, work directory
// permissions, and free disk space.
package preflight
