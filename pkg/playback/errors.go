package playback

import (
	"errors"
	"strings"
)

// ErrorCode classifies the Player's asynchronous error signal.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota
	ErrorAborted
	ErrorNetwork
	ErrorDecode
	ErrorUnsupported
)

// ErrPlayAborted is returned by Player.Play when a newer source was
// assigned before playback could start. This is an expected race when the
// user selects another channel while one is still loading; it is swallowed,
// never surfaced.
var ErrPlayAborted = errors.New("play request superseded by a newer source")

// ErrUnsupportedSource is returned by Player.Play when the source format
// cannot be played or playback was blocked by the player.
var ErrUnsupportedSource = errors.New("stream format not supported or playback blocked")

// describeMediaError maps the asynchronous error signal to a user-facing
// message. An unknown code defaults to the unavailable/geo-blocked hint.
func describeMediaError(code ErrorCode) string {
	message := "Failed to load stream. "
	switch code {
	case ErrorAborted:
		message += "The video playback was aborted."
	case ErrorNetwork:
		message += "A network error caused the video download to fail."
	case ErrorDecode:
		message += "Playback was aborted due to a decoding issue."
	case ErrorUnsupported:
		message += "The stream format is not supported or the channel is down."
	default:
		message += "The channel may be unavailable or geo-blocked."
	}
	return message
}

// describePlayError maps a synchronous play failure to a user-facing
// message, keyed on the failure category and HTTP-status-like substrings in
// the failure detail.
func describePlayError(err error) string {
	message := "Failed to play stream. "
	detail := err.Error()
	switch {
	case errors.Is(err, ErrUnsupportedSource):
		message += "The stream format is not supported or playback was blocked."
	case strings.Contains(detail, "403"):
		message += "Access forbidden. This stream may be geo-blocked."
	case strings.Contains(detail, "404"):
		message += "Stream not found. This channel may be unavailable."
	default:
		message += "Try another channel."
	}
	return message
}
