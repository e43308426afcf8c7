// Package ytdlp wraps the yt-dlp command line tool for audio downloads.
//
// Options is the strongly typed configuration handed to yt-dlp: format
// selection, audio extraction codec and quality, output template, and
// per-platform authentication (browser cookies for YouTube, a session
// cookie from the environment for Bilibili). The Client execs the binary
// and classifies failure output into remediation hints for known
// platform-specific causes.
package ytdlp
