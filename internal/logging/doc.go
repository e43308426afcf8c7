// Package logging builds slog loggers with console and JSON handlers.
//
// The console handler renders compact single-line records with a
// leading component label; the JSON handler emits machine-readable
// records with normalized key names. NewFromConfig wires level, format,
// and a log file under the configured log directory. Attr helpers and
// standardized field keys keep pipeline log output uniform.
package logging
