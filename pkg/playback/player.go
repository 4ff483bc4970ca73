package playback

import (
	"strings"

	"github.com/elnormous/contenttype"
)

// Player is the opaque playback capability the controller drives. The
// catalog core never touches decoding or rendering directly.
//
// OnFirstMetadata fires at most once per AssignSource call. OnError fires
// when decoding or the network fails after a source was already loading or
// playing. Play blocks until playback starts, or returns ErrPlayAborted
// when the request was superseded by a newer source assignment.
type Player interface {
	AssignSource(url string, mediaType contenttype.MediaType)
	ClearSource()
	Play() error
	Pause()
	IsPaused() bool
	OnFirstMetadata(fn func())
	OnError(fn func(code ErrorCode, detail string))
	RequestLayoutResize()
}

var (
	mediaTypeHLS         = contenttype.NewMediaType("application/x-mpegURL")
	mediaTypeDash        = contenttype.NewMediaType("application/dash+xml")
	mediaTypeProgressive = contenttype.NewMediaType("video/mp4")
)

// SourceType infers the media type hint for a stream URL from its
// file-extension/path hint. Unknown extensions are treated as progressive.
func SourceType(url string) contenttype.MediaType {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".m3u8"):
		return mediaTypeHLS
	case strings.Contains(lower, ".mpd"):
		return mediaTypeDash
	case strings.Contains(lower, ".mp4"), strings.Contains(lower, ".m4v"):
		return mediaTypeProgressive
	default:
		return mediaTypeProgressive
	}
}
