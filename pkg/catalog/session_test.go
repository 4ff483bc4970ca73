package catalog

import (
	"testing"
	"time"
)

const testDebounce = 5 * time.Millisecond

func newTestSession() *Session {
	return NewSession(NewQueryEngine(nil), testDebounce)
}

func TestSessionLoadResetsChannelControls(t *testing.T) {
	session := newTestSession()
	playlist := DecoratePlaylist("UK", "UK", "uk.m3u")
	session.SetPlaylists([]Playlist{playlist})

	session.SetQualityFloor(QualityUHD)
	session.SetGeoFreeOnly(true)
	session.SetFavoritesOnly(true)
	session.SetSortKey(SortQualityDesc)

	session.SetChannels(playlist, []Channel{
		{ID: "c1", DisplayName: "Alpha", QualityValue: 480},
		{ID: "c2", DisplayName: "Bravo", QualityValue: 2160},
	})

	state := session.FilterState()
	if state.QualityFloor != QualityAll || state.GeoFreeOnly {
		t.Errorf("Per-playlist controls did not reset on load: %+v", state)
	}
	if !state.FavoritesOnly || state.SortKey != SortQualityDesc {
		t.Errorf("Session preferences did not survive the load: %+v", state)
	}
}

func TestSessionRecordsChannelCount(t *testing.T) {
	session := newTestSession()
	playlist := DecoratePlaylist("PT", "PT", "pt.m3u")
	session.SetPlaylists([]Playlist{playlist})

	session.SetChannels(playlist, []Channel{
		{ID: "c1", DisplayName: "Alpha"},
		{ID: "c2", DisplayName: "Bravo"},
		{ID: "c3", DisplayName: "Charlie"},
	})

	visible := session.VisiblePlaylists()
	if len(visible) != 1 {
		t.Fatalf("Unexpected number of playlists. Expected: 1, Got: %d", len(visible))
	}
	if visible[0].ChannelCount == nil || *visible[0].ChannelCount != 3 {
		t.Errorf("Channel count not recorded: %+v", visible[0].ChannelCount)
	}
}

func TestSessionDebouncedChannelSearch(t *testing.T) {
	session := newTestSession()
	playlist := DecoratePlaylist("UK", "UK", "uk.m3u")
	session.SetPlaylists([]Playlist{playlist})
	session.SetChannels(playlist, []Channel{
		{ID: "c1", DisplayName: "Alpha News"},
		{ID: "c2", DisplayName: "Bravo Sports"},
	})

	// Rapid keystrokes: only the last term is applied.
	session.SetChannelSearch("alp")
	session.SetChannelSearch("bravo")

	// Not applied before the debounce interval elapses.
	if len(session.VisibleChannels()) != 2 {
		t.Errorf("Search applied before debounce interval")
	}

	time.Sleep(20 * testDebounce)

	visible := session.VisibleChannels()
	if len(visible) != 1 || visible[0].ID != "c2" {
		t.Errorf("Unexpected search result: %+v", visible)
	}
}

func TestSessionPlaylistSearchIsIndependent(t *testing.T) {
	session := newTestSession()
	session.SetPlaylists([]Playlist{
		DecoratePlaylist("UK", "UK", "uk.m3u"),
		DecoratePlaylist("PT", "PT", "pt.m3u"),
	})

	session.SetPlaylistSearch("portugal")
	time.Sleep(20 * testDebounce)

	visible := session.VisiblePlaylists()
	if len(visible) != 1 || visible[0].Code != "PT" {
		t.Errorf("Unexpected playlist search result: %+v", visible)
	}
}

func TestSessionCustomSlotIsSingular(t *testing.T) {
	session := newTestSession()
	session.SetPlaylists([]Playlist{DecoratePlaylist("UK", "UK", "uk.m3u")})

	first := DecoratePlaylist(CustomPlaylistCode, "Custom Playlist", "/tmp/one.m3u")
	session.RegisterCustom(first)

	second := DecoratePlaylist(CustomPlaylistCode, "Custom Playlist", "/tmp/two.m3u")
	session.RegisterCustom(second)

	customs := 0
	var source string
	for _, playlist := range session.VisiblePlaylists() {
		if playlist.Code == CustomPlaylistCode {
			customs++
			source = playlist.Source
		}
	}
	if customs != 1 {
		t.Fatalf("Unexpected number of custom playlists. Expected: 1, Got: %d", customs)
	}
	if source != "/tmp/two.m3u" {
		t.Errorf("Custom slot was not replaced. Got source: %s", source)
	}
}

func TestSessionFindChannel(t *testing.T) {
	session := newTestSession()
	playlist := DecoratePlaylist("UK", "UK", "uk.m3u")
	session.SetPlaylists([]Playlist{playlist})
	session.SetChannels(playlist, []Channel{{ID: "c1", DisplayName: "Alpha"}})

	if _, ok := session.FindChannel("c1"); !ok {
		t.Error("Expected to find channel c1")
	}
	if _, ok := session.FindChannel("missing"); ok {
		t.Error("Found a channel that does not exist")
	}
}

func TestDebouncerCoalescesTriggers(t *testing.T) {
	debouncer := NewDebouncer(5 * time.Millisecond)
	fired := make(chan int, 10)

	for i := 0; i < 5; i++ {
		value := i
		debouncer.Trigger(func() { fired <- value })
	}

	select {
	case value := <-fired:
		if value != 4 {
			t.Errorf("Unexpected trigger fired. Expected: 4, Got: %d", value)
		}
	case <-time.After(time.Second):
		t.Fatal("Debounced callback never fired")
	}

	select {
	case value := <-fired:
		t.Errorf("More than one callback fired, got extra: %d", value)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	debouncer := NewDebouncer(5 * time.Millisecond)
	fired := make(chan struct{}, 1)

	debouncer.Trigger(func() { fired <- struct{}{} })
	debouncer.Stop()

	select {
	case <-fired:
		t.Error("Callback fired after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}
