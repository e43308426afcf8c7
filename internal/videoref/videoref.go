package videoref

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Platform identifies the video source service.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformBilibili Platform = "bilibili"
	PlatformUnknown  Platform = "unknown"
)

var titleCaser = cases.Title(language.English)

// Display returns the platform name formatted for user-facing output.
func (p Platform) Display() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformUnknown:
		return "Unknown"
	default:
		return titleCaser.String(string(p))
	}
}

// Reference is a classified video URL: the source platform plus the
// extracted video identifier, when one could be found.
type Reference struct {
	Platform Platform
	VideoID  string
}

// Supported reports whether the reference points at a platform the
// pipeline can download from.
func (r Reference) Supported() bool {
	return r.Platform != PlatformUnknown
}

var (
	// Ordered per platform; the first capturing match wins. Later
	// patterns only matter for URL shapes the earlier ones miss.
	youtubeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[?&#/]|$)`),
		regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`(?:shorts/)([0-9A-Za-z_-]{11})`),
	}
	bilibiliIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(BV[a-zA-Z0-9]{10})`),
		regexp.MustCompile(`(av\d+)`),
	}

	youtubeURL  = regexp.MustCompile(`(?:youtube\.com|youtu\.be)`)
	bilibiliURL = regexp.MustCompile(`(?:bilibili\.com|b23\.tv)`)
)

// Classify determines the platform behind a video URL and extracts its
// canonical video identifier. Pure string inspection; no network I/O.
// URLs matching no known platform yield PlatformUnknown with no ID.
func Classify(url string) Reference {
	switch {
	case bilibiliURL.MatchString(url):
		return Reference{Platform: PlatformBilibili, VideoID: firstMatch(bilibiliIDPatterns, url)}
	case youtubeURL.MatchString(url):
		return Reference{Platform: PlatformYouTube, VideoID: firstMatch(youtubeIDPatterns, url)}
	default:
		return Reference{Platform: PlatformUnknown}
	}
}

func firstMatch(patterns []*regexp.Regexp, url string) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// DefaultOutputName derives the default transcript filename for a
// classified URL: "<platform>_<id>.txt", or "output.txt" when no ID
// could be extracted.
func (r Reference) DefaultOutputName() string {
	if !r.Supported() || r.VideoID == "" {
		return "output.txt"
	}
	return string(r.Platform) + "_" + r.VideoID + ".txt"
}
