package ytdlp

import (
	"path/filepath"
	"strings"

	"scribe/internal/videoref"
)

// Default download settings, mirroring the yt-dlp audio extraction
// profile the pipeline was built around.
const (
	DefaultFormat       = "bestaudio/best"
	DefaultAudioCodec   = "mp3"
	DefaultAudioQuality = "192"
	DefaultBrowser      = "chrome"
)

// Settings carries operator-configurable download defaults.
type Settings struct {
	// Format is the yt-dlp format selector.
	Format string
	// AudioCodec is the extraction codec (mp3, m4a, opus, ...).
	AudioCodec string
	// AudioQuality is the extraction quality passed to the postprocessor.
	AudioQuality string
	// CookiesFromBrowser names the browser whose cookies authenticate
	// YouTube downloads.
	CookiesFromBrowser string
	// BilibiliCookie is the session cookie attached to Bilibili requests.
	// Read from the environment once per run; empty disables it.
	BilibiliCookie string
}

func (s Settings) withDefaults() Settings {
	if strings.TrimSpace(s.Format) == "" {
		s.Format = DefaultFormat
	}
	if strings.TrimSpace(s.AudioCodec) == "" {
		s.AudioCodec = DefaultAudioCodec
	}
	if strings.TrimSpace(s.AudioQuality) == "" {
		s.AudioQuality = DefaultAudioQuality
	}
	if strings.TrimSpace(s.CookiesFromBrowser) == "" {
		s.CookiesFromBrowser = DefaultBrowser
	}
	return s
}

// Options is the full configuration for one download invocation. Fields
// are enumerated rather than carried in a string map so option names
// cannot be silently misspelled.
type Options struct {
	Format             string
	AudioCodec         string
	AudioQuality       string
	OutputTemplate     string
	CookiesFromBrowser string
	BilibiliCookie     string
}

// AudioPath returns the path of the audio file yt-dlp leaves behind:
// the output template plus the extraction codec extension.
func (o Options) AudioPath() string {
	return o.OutputTemplate + "." + o.AudioCodec
}

// BuildOptions derives the download configuration for a classified URL.
// The output template is the requested output path with its extension
// stripped; yt-dlp appends the codec extension itself. Only supported
// platforms reach this builder; the pipeline rejects unknown URLs first.
func BuildOptions(ref videoref.Reference, outputPath string, settings Settings) Options {
	settings = settings.withDefaults()

	opts := Options{
		Format:         settings.Format,
		AudioCodec:     settings.AudioCodec,
		AudioQuality:   settings.AudioQuality,
		OutputTemplate: strings.TrimSuffix(outputPath, filepath.Ext(outputPath)),
	}

	switch ref.Platform {
	case videoref.PlatformYouTube:
		opts.CookiesFromBrowser = settings.CookiesFromBrowser
	case videoref.PlatformBilibili:
		opts.BilibiliCookie = settings.BilibiliCookie
	}

	return opts
}

// args renders the options into a yt-dlp argument list.
func (o Options) args(url string) []string {
	args := []string{
		"--no-playlist",
		"--newline",
		"--format", o.Format,
		"--extract-audio",
		"--audio-format", o.AudioCodec,
		"--audio-quality", o.AudioQuality,
		"--output", o.OutputTemplate + ".%(ext)s",
	}
	if o.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", o.CookiesFromBrowser)
	}
	if o.BilibiliCookie != "" {
		args = append(args, "--add-headers", "Cookie:"+o.BilibiliCookie)
	}
	return append(args, url)
}
