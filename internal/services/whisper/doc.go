// Package whisper drives WhisperX speech transcription over audio files.
//
// The service invokes WhisperX through uvx, requests JSON output, and
// materializes the full ordered segment sequence before returning so the
// chunker can work over the complete run. Decoding is pinned to
// temperature zero for deterministic repeat runs; model, device, and
// precision come from Config.
package whisper
