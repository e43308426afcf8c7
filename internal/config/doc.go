// Package config loads, normalizes, and validates scribe configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such
// as BILIBILI_COOKIE. The Config type centralizes every knob the CLI
// needs: working directories, download options, transcription settings,
// and log output.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths, canonical log formats, and clear validation
// errors.
package config
