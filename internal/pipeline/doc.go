// Package pipeline drives a transcription run end to end: classify the
// video URL, download audio, transcribe it, chunk the segments, and render
// the transcript artifacts. Runs are serialized per work directory with a
// file lock, and each run is tracked in the history store when enabled.
package pipeline
