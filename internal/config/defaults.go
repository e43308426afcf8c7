package config

const (
	defaultWorkDir         = "~/.local/share/scribe/work"
	defaultLogDir          = "~/.local/share/scribe/logs"
	defaultDownloadFormat  = "bestaudio/best"
	defaultAudioCodec      = "mp3"
	defaultAudioQuality    = "192"
	defaultCookiesBrowser  = "chrome"
	defaultWhisperModel    = "base"
	defaultWhisperBeamSize = 5
	defaultMaxWords        = 2000
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// bilibiliCookieEnv is the environment variable consulted when
// download.bilibili_cookie is unset.
const bilibiliCookieEnv = "BILIBILI_COOKIE"

// Default returns the repository default configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Download: Download{
			Format:             defaultDownloadFormat,
			AudioCodec:         defaultAudioCodec,
			AudioQuality:       defaultAudioQuality,
			CookiesFromBrowser: defaultCookiesBrowser,
		},
		Whisper: Whisper{
			Model:    defaultWhisperModel,
			BeamSize: defaultWhisperBeamSize,
		},
		Output: Output{
			DefaultMaxWords: defaultMaxWords,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
