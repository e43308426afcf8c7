// Package services defines shared utilities consumed by the pipeline
// stages and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures
//     with the stage they belong to, so the CLI can report which part of
//     the run failed and whether a retry could help.
//   - Context helpers that stamp run IDs and stage names for logging.
//
// Subpackages wrap the external collaborators: ytdlp drives the
// download tool and whisper drives the transcription engine.
package services
