package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// QualityFloor selects the minimum quality tier a channel must reach.
type QualityFloor string

const (
	QualityAll    QualityFloor = "all"
	QualityHD     QualityFloor = "hd"
	QualityFullHD QualityFloor = "fullhd"
	QualityUHD    QualityFloor = "uhd"
)

// minValue is the qualityValue threshold the floor translates to.
func (q QualityFloor) minValue() int {
	switch q {
	case QualityHD:
		return 720
	case QualityFullHD:
		return 1080
	case QualityUHD:
		return 2160
	default:
		return 0
	}
}

// SortKey selects the channel sort comparator.
type SortKey string

const (
	SortNameAsc     SortKey = "name-asc"
	SortNameDesc    SortKey = "name-desc"
	SortQualityDesc SortKey = "quality-desc"
	SortQualityAsc  SortKey = "quality-asc"
	SortGroupAsc    SortKey = "group-asc"
)

// FilterState is the channel-side filter state for one session. It is
// mutated only by user input handlers and consumed on every query pass.
type FilterState struct {
	SearchTerm    string       `json:"search"`
	QualityFloor  QualityFloor `json:"quality"`
	GeoFreeOnly   bool         `json:"geoFreeOnly"`
	FavoritesOnly bool         `json:"favoritesOnly"`
	SortKey       SortKey      `json:"sort"`
}

// DefaultFilterState is the state a fresh session starts with.
func DefaultFilterState() FilterState {
	return FilterState{
		SearchTerm:   "",
		QualityFloor: QualityAll,
		SortKey:      SortNameAsc,
	}
}

// ResetForLoad clears the per-playlist controls after a playlist load.
// Favorites-only and the sort key are session preferences and survive
// playlist switches.
func (s *FilterState) ResetForLoad() {
	s.SearchTerm = ""
	s.QualityFloor = QualityAll
	s.GeoFreeOnly = false
}

// QueryEngine applies search, filter and sort over the enriched channel
// collection and the playlist collection. Deterministic and side-effect
// free, safe to re-run on every state change.
type QueryEngine struct {
	collator   *collate.Collator
	isFavorite func(id string) bool
}

// NewQueryEngine builds an engine. isFavorite backs the favorites-only
// filter; a nil func disables it.
func NewQueryEngine(isFavorite func(id string) bool) *QueryEngine {
	if isFavorite == nil {
		isFavorite = func(string) bool { return false }
	}
	return &QueryEngine{
		collator:   collate.New(language.English),
		isFavorite: isFavorite,
	}
}

// FilterChannels produces the ordered visible subset for the given state.
// Each stage filters the previous stage's output; the sort is stable so
// equal keys preserve their prior relative order.
func (e *QueryEngine) FilterChannels(channels []Channel, state FilterState) []Channel {
	filtered := make([]Channel, 0, len(channels))

	term := strings.ToLower(state.SearchTerm)
	minQuality := state.QualityFloor.minValue()

	for _, channel := range channels {
		if term != "" {
			haystack := strings.ToLower(channel.DisplayName + " " + channel.Group + " " + channel.PlaylistLabel)
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		if channel.QualityValue < minQuality {
			continue
		}
		if state.GeoFreeOnly && channel.Flags.GeoBlocked {
			continue
		}
		if state.FavoritesOnly && !e.isFavorite(channel.ID) {
			continue
		}
		filtered = append(filtered, channel)
	}

	e.sortChannels(filtered, state.SortKey)
	return filtered
}

func (e *QueryEngine) sortChannels(channels []Channel, key SortKey) {
	sort.SliceStable(channels, func(i, j int) bool {
		a, b := channels[i], channels[j]
		switch key {
		case SortNameDesc:
			return e.collator.CompareString(b.DisplayName, a.DisplayName) < 0
		case SortQualityDesc:
			return b.QualityValue < a.QualityValue
		case SortQualityAsc:
			return a.QualityValue < b.QualityValue
		case SortGroupAsc:
			return e.collator.CompareString(a.Group, b.Group) < 0
		default:
			// name-asc, also the behavior for unrecognized keys.
			return e.collator.CompareString(a.DisplayName, b.DisplayName) < 0
		}
	})
}

// FilterPlaylists produces the visible playlist subset for a search term.
// No quality or favorite filters apply to playlists.
func (e *QueryEngine) FilterPlaylists(playlists []Playlist, term string) []Playlist {
	term = strings.ToLower(term)
	filtered := make([]Playlist, 0, len(playlists))
	for _, playlist := range playlists {
		if term != "" {
			haystack := strings.ToLower(playlist.DisplayName + " " + playlist.Code)
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		filtered = append(filtered, playlist)
	}
	return filtered
}

// SortPlaylistsByName orders playlists by display name in place.
func (e *QueryEngine) SortPlaylistsByName(playlists []Playlist) {
	sort.SliceStable(playlists, func(i, j int) bool {
		return e.collator.CompareString(playlists[i].DisplayName, playlists[j].DisplayName) < 0
	})
}
