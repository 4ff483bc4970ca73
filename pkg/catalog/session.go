package catalog

import (
	"strings"
	"sync"
	"time"
)

// Session owns the catalog state for one window: the playlist collection,
// the channels of the active playlist, the filter state and the visible
// subsets. All mutation goes through its methods; there are no package
// globals. Search input is debounced per stream so rapid keystrokes produce
// at most one query pass per interval.
type Session struct {
	mu     sync.Mutex
	engine *QueryEngine

	playlists         []Playlist
	filteredPlaylists []Playlist
	playlistSearch    string

	currentPlaylist  *Playlist
	channels         []Channel
	filteredChannels []Channel
	filter           FilterState

	channelDebounce  *Debouncer
	playlistDebounce *Debouncer
}

// NewSession builds a session with default filter state. The debounce
// interval applies independently to channel and playlist search.
func NewSession(engine *QueryEngine, debounceInterval time.Duration) *Session {
	return &Session{
		engine:           engine,
		filter:           DefaultFilterState(),
		channelDebounce:  NewDebouncer(debounceInterval),
		playlistDebounce: NewDebouncer(debounceInterval),
	}
}

// SetPlaylists replaces the playlist collection, ordered by display name.
func (s *Session) SetPlaylists(playlists []Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SortPlaylistsByName(playlists)
	s.playlists = playlists
	s.refilterPlaylists()
}

// RegisterCustom registers a user-selected playlist. The CUSTOM slot is
// singular: an existing custom playlist is replaced in place, otherwise the
// new one is prepended.
func (s *Session) RegisterCustom(playlist Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.playlists {
		if s.playlists[i].Code == CustomPlaylistCode {
			s.playlists[i] = playlist
			s.refilterPlaylists()
			return
		}
	}
	s.playlists = append([]Playlist{playlist}, s.playlists...)
	s.refilterPlaylists()
}

// SetChannels installs the channels of a freshly loaded playlist. The
// per-playlist controls (search, quality floor, geo filter) reset to
// defaults; favorites-only and sort are session preferences and persist.
// The playlist's channel count is recorded on the collection entry.
func (s *Session) SetChannels(playlist Playlist, channels []Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(channels)
	playlist.ChannelCount = &count
	for i := range s.playlists {
		if s.playlists[i].Code == playlist.Code {
			s.playlists[i].ChannelCount = &count
			break
		}
	}

	s.currentPlaylist = &playlist
	s.channels = channels
	s.filter.ResetForLoad()
	s.channelDebounce.Stop()
	s.refilterChannels()
	s.refilterPlaylists()
}

// SetChannelSearch records a search term after the debounce interval.
func (s *Session) SetChannelSearch(term string) {
	s.channelDebounce.Trigger(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.filter.SearchTerm = strings.ToLower(term)
		s.refilterChannels()
	})
}

// SetPlaylistSearch records a playlist search term after the debounce
// interval. Playlist search debounces independently of channel search.
func (s *Session) SetPlaylistSearch(term string) {
	s.playlistDebounce.Trigger(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.playlistSearch = strings.ToLower(term)
		s.refilterPlaylists()
	})
}

func (s *Session) SetQualityFloor(floor QualityFloor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.QualityFloor = floor
	s.refilterChannels()
}

func (s *Session) SetGeoFreeOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.GeoFreeOnly = on
	s.refilterChannels()
}

func (s *Session) SetFavoritesOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.FavoritesOnly = on
	s.refilterChannels()
}

func (s *Session) SetSortKey(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.SortKey = key
	s.refilterChannels()
}

// Refresh re-runs the channel query with unchanged state, e.g. after a
// favorite toggle while the favorites-only filter is active.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refilterChannels()
}

// VisibleChannels returns the current ordered visible subset.
func (s *Session) VisibleChannels() []Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := make([]Channel, len(s.filteredChannels))
	copy(visible, s.filteredChannels)
	return visible
}

// VisiblePlaylists returns the current visible playlist subset.
func (s *Session) VisiblePlaylists() []Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := make([]Playlist, len(s.filteredPlaylists))
	copy(visible, s.filteredPlaylists)
	return visible
}

// CurrentPlaylist returns the active playlist, or nil before the first load.
func (s *Session) CurrentPlaylist() *Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPlaylist == nil {
		return nil
	}
	playlist := *s.currentPlaylist
	return &playlist
}

// FindPlaylist looks a playlist up by its code.
func (s *Session) FindPlaylist(code string) (Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = normalizeCode(code)
	for _, playlist := range s.playlists {
		if playlist.Code == code {
			return playlist, true
		}
	}
	return Playlist{}, false
}

// FindChannel looks a channel of the active playlist up by its id.
func (s *Session) FindChannel(id string) (Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, channel := range s.channels {
		if channel.ID == id {
			return channel, true
		}
	}
	return Channel{}, false
}

// FilterState returns a copy of the current channel filter state.
func (s *Session) FilterState() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Close cancels any pending debounced work.
func (s *Session) Close() {
	s.channelDebounce.Stop()
	s.playlistDebounce.Stop()
}

func (s *Session) refilterChannels() {
	s.filteredChannels = s.engine.FilterChannels(s.channels, s.filter)
}

func (s *Session) refilterPlaylists() {
	s.filteredPlaylists = s.engine.FilterPlaylists(s.playlists, s.playlistSearch)
}
