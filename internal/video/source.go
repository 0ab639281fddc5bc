package video

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// SourceKind classifies a lesson's media URL. Only direct files take part
// in progress tracking; embedded platforms are opened externally with no
// reporting, a deliberate simplification the platform relies on.
type SourceKind string

const (
	SourceYouTube SourceKind = "youtube"
	SourceVimeo   SourceKind = "vimeo"
	SourceDirect  SourceKind = "direct"
	SourceUnknown SourceKind = "unknown"
)

// Trackable reports whether progress tracking applies to this source.
func (k SourceKind) Trackable() bool {
	return k == SourceDirect
}

// Info describes a classified media URL.
type Info struct {
	Kind        SourceKind
	EmbedURL    string
	OriginalURL string
	Platform    string
}

var (
	youtubeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
	}
	vimeoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`vimeo\.com/(\d+)`),
		regexp.MustCompile(`vimeo\.com/video/(\d+)`),
		regexp.MustCompile(`player\.vimeo\.com/video/(\d+)`),
	}
)

// Detect classifies a media URL by shape.
func Detect(mediaURL string) SourceKind {
	if mediaURL == "" {
		return SourceUnknown
	}
	lower := strings.ToLower(mediaURL)

	switch {
	case strings.Contains(lower, "youtube.com"),
		strings.Contains(lower, "youtu.be"),
		strings.Contains(lower, "youtube-nocookie.com"):
		return SourceYouTube

	case strings.Contains(lower, "vimeo.com"):
		return SourceVimeo

	case strings.HasSuffix(lower, ".mp4"),
		strings.HasSuffix(lower, ".webm"),
		strings.HasSuffix(lower, ".ogg"),
		strings.HasSuffix(lower, ".mov"),
		strings.Contains(lower, ".mp4?"),
		strings.Contains(lower, ".webm?"):
		return SourceDirect
	}
	return SourceUnknown
}

// YouTubeID extracts the video id from the common YouTube URL shapes.
// Returns "" when no id is found.
func YouTubeID(mediaURL string) string {
	for _, p := range youtubeIDPatterns {
		if m := p.FindStringSubmatch(mediaURL); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// VimeoID extracts the numeric video id from a Vimeo URL.
func VimeoID(mediaURL string) string {
	for _, p := range vimeoIDPatterns {
		if m := p.FindStringSubmatch(mediaURL); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// GetInfo classifies a URL and resolves its embed form.
func GetInfo(mediaURL string) Info {
	kind := Detect(mediaURL)
	info := Info{Kind: kind, EmbedURL: mediaURL, OriginalURL: mediaURL}

	switch kind {
	case SourceYouTube:
		if id := YouTubeID(mediaURL); id != "" {
			// youtube-nocookie keeps the embed free of tracking cookies.
			info.EmbedURL = fmt.Sprintf("https://www.youtube-nocookie.com/embed/%s?rel=0&modestbranding=1", id)
		}
		info.Platform = "YouTube"
	case SourceVimeo:
		if id := VimeoID(mediaURL); id != "" {
			info.EmbedURL = fmt.Sprintf("https://player.vimeo.com/video/%s", id)
		}
		info.Platform = "Vimeo"
	}
	return info
}

// ValidURL reports whether the URL parses and classifies as a known kind.
func ValidURL(mediaURL string) bool {
	if mediaURL == "" {
		return false
	}
	if _, err := url.ParseRequestURI(mediaURL); err != nil {
		return false
	}
	return Detect(mediaURL) != SourceUnknown
}
