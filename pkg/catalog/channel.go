package catalog

import (
	"strings"

	"github.com/a13labs/iptvdeck/pkg/country"
)

// Tag is a derived badge for a channel, produced from bracketed markers in
// the original channel name.
type Tag struct {
	Label string `json:"label"`
	Class string `json:"className"`
	Key   string `json:"key"`
}

// Flags mirror the presence of the corresponding name markers, independent
// of the tag objects, so filters do not need to scan the tag list.
type Flags struct {
	GeoBlocked bool `json:"geoBlocked"`
	Limited    bool `json:"limited"`
}

// Channel is an enriched channel record, derived from a raw playlist entry
// and its owning playlist.
//
// ID is stable across re-filtering within one playlist load, but not across
// reloads: when tvg-id is absent it falls back to playlist code, positional
// index and raw URL, so a re-fetched playlist that reorders entries produces
// different ids. Favorites keyed by such ids can silently stop matching.
// This is a known limitation, kept as observed behavior.
type Channel struct {
	ID            string            `json:"id"`
	DisplayName   string            `json:"displayName"`
	OriginalName  string            `json:"originalName"`
	PlaylistCode  string            `json:"playlistCode"`
	PlaylistLabel string            `json:"playlistLabel"`
	Group         string            `json:"group"`
	Quality       string            `json:"quality"`
	QualityValue  int               `json:"qualityValue"`
	Tags          []Tag             `json:"tags"`
	Flags         Flags             `json:"flags"`
	URL           string            `json:"url"`
	Duration      int               `json:"duration"`
	Attributes    map[string]string `json:"-"`
}

// Playlist identifies one channel source in the catalog.
type Playlist struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Flag         string `json:"flag"`
	Label        string `json:"label"`
	Source       string `json:"source"`
	ChannelCount *int   `json:"channelCount,omitempty"`
}

// CustomPlaylistCode is the singular slot for a user-selected playlist.
// Registering a new custom playlist replaces any existing one.
const CustomPlaylistCode = "CUSTOM"

// DecoratePlaylist derives the display metadata for a playlist from its
// code. An empty code falls back to the name.
func DecoratePlaylist(code, name, source string) Playlist {
	if code == "" {
		code = name
	}
	metadata := country.Resolve(code)
	return Playlist{
		Code:        normalizeCode(code),
		Name:        name,
		DisplayName: metadata.Name,
		Flag:        metadata.Flag,
		Label:       metadata.Flag + " " + metadata.Name,
		Source:      source,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
