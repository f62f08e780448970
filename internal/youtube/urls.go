package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDRe   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	channelIDRe = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
)

// pathPrefixes are the URL path shapes that carry the video ID as their
// next segment.
var pathPrefixes = []string{"/embed/", "/shorts/", "/live/", "/v/"}

// ExtractVideoID returns the video ID referenced by input, which may be a
// bare ID or any of the common YouTube URL shapes:
//
//	https://www.youtube.com/watch?v=ID
//	https://m.youtube.com/watch?v=ID&t=25
//	https://youtu.be/ID
//	https://www.youtube.com/embed/ID
//	https://www.youtube.com/shorts/ID
//
// It returns "" when no ID can be found.
func ExtractVideoID(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if videoIDRe.MatchString(input) {
		return input
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return validID(firstSegment(u.Path))
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if id := u.Query().Get("v"); id != "" {
			return validID(id)
		}
		for _, prefix := range pathPrefixes {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				return validID(firstSegment(rest))
			}
		}
	}
	return ""
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexAny(p, "/&"); i > -1 {
		// youtu.be/ID&feature=share style links put junk after the ID
		p = p[:i]
	}
	return p
}

func validID(id string) string {
	if videoIDRe.MatchString(id) {
		return id
	}
	return ""
}

// IsChannelID reports whether s has the shape of a channel ID ("UC" plus
// 22 characters).
func IsChannelID(s string) bool {
	return channelIDRe.MatchString(s)
}

// WatchURL returns the watch page of a video.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// EmbedURL returns the autoplaying embedded player URL of a video.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(id) + "?autoplay=1"
}

// ThumbnailURL returns the high quality thumbnail of a video, which exists
// for every public video and needs no API call.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg"
}

// ChannelURL returns a channel's page.
func ChannelURL(id string) string {
	return "https://www.youtube.com/channel/" + url.PathEscape(id)
}
