// Package videoref classifies video URLs by source platform and extracts
// canonical video identifiers.
//
// Classification is pure string matching over known YouTube and Bilibili
// URL shapes; it performs no network I/O. The resulting Reference selects
// per-platform download options and names default output files, and lets
// the pipeline reject unsupported URLs before any work starts.
package videoref
