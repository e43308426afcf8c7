// Package transcript models timestamped speech segments and turns them
// into output artifacts.
//
// The chunker partitions an ordered segment sequence into word-count
// bounded groups without ever splitting a segment; concatenating the
// groups always reproduces the input exactly. Renderers serialize one
// group into either a plain timestamped transcript or SRT-style
// subtitle blocks. Both are deterministic: the same group and format
// always produce byte-identical content.
package transcript
