// Package history persists pipeline runs in SQLite.
//
// Each invocation gets one row tracking its URL, platform, terminal
// status, and written output files. The database is a convenience
// record for the `scribe history` command, not an operational
// dependency: the pipeline runs fine with history disabled. Schema
// changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package history
