package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/a13labs/iptvdeck/pkg/catalog"
	"github.com/a13labs/iptvdeck/pkg/playback"
	"github.com/a13labs/iptvdeck/pkg/source"
)

const testPlaylist = `#EXTM3U
#EXTINF:-1 tvg-id="bbc1" group-title="News",BBC One [Geo-blocked]
http://example.com/bbc1.m3u8
#EXTINF:-1 group-title="Sports",Sky Sports 1080p
http://example.com/sky.m3u8
`

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "uk.m3u"), []byte(testPlaylist), 0644); err != nil {
		t.Fatalf("Failed to write test playlist: %v", err)
	}

	config := ConfigData{
		Port:             8080,
		StreamsDir:       dir,
		FavoritesFile:    filepath.Join(dir, "favorites.json"),
		Timeout:          1,
		SettleDelayMs:    1,
		SearchDebounceMs: 1,
	}

	srv := New(config, source.NewDirProvider(dir, config.Timeout), playback.NewHeadlessPlayer(nil))
	if err := srv.RefreshPlaylists(); err != nil {
		t.Fatalf("Failed to refresh playlists: %v", err)
	}
	return srv, srv.Handlers()
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", recorder.Body.String(), err)
	}
}

type channelsResponse struct {
	Playlist *catalog.Playlist   `json:"playlist"`
	Filter   catalog.FilterState `json:"filter"`
	Channels []catalog.Channel   `json:"channels"`
	Total    int                 `json:"total"`
}

func loadUK(t *testing.T, handler http.Handler) {
	t.Helper()
	recorder := doRequest(t, handler, "POST", "/api/playlists/uk/load", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Unexpected status loading playlist. Expected: %d, Got: %d", http.StatusOK, recorder.Code)
	}
}

func TestListPlaylists(t *testing.T) {
	_, handler := newTestServer(t)

	recorder := doRequest(t, handler, "GET", "/api/playlists", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, recorder.Code)
	}

	var response struct {
		Playlists []catalog.Playlist `json:"playlists"`
		Current   *catalog.Playlist  `json:"current"`
	}
	decodeBody(t, recorder, &response)

	if len(response.Playlists) != 1 {
		t.Fatalf("Unexpected number of playlists. Expected: 1, Got: %d", len(response.Playlists))
	}
	if response.Playlists[0].Code != "UK" {
		t.Errorf("Unexpected playlist code. Expected: UK, Got: %s", response.Playlists[0].Code)
	}
	if response.Current != nil {
		t.Error("Expected no current playlist before the first load")
	}
}

func TestLoadPlaylist(t *testing.T) {
	_, handler := newTestServer(t)

	recorder := doRequest(t, handler, "POST", "/api/playlists/uk/load", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, recorder.Code)
	}

	var response struct {
		Code     string `json:"code"`
		Channels int    `json:"channels"`
	}
	decodeBody(t, recorder, &response)
	if response.Code != "UK" || response.Channels != 2 {
		t.Errorf("Unexpected load result. Got: %+v", response)
	}

	recorder = doRequest(t, handler, "GET", "/api/channels", nil)
	var channels channelsResponse
	decodeBody(t, recorder, &channels)
	if channels.Total != 2 {
		t.Fatalf("Unexpected channel count. Expected: 2, Got: %d", channels.Total)
	}
	if channels.Channels[0].DisplayName != "BBC One" {
		t.Errorf("Unexpected first channel. Expected: BBC One, Got: %s", channels.Channels[0].DisplayName)
	}
	if channels.Playlist == nil || channels.Playlist.Code != "UK" {
		t.Error("Expected the current playlist to be UK")
	}
}

func TestLoadUnknownPlaylist(t *testing.T) {
	_, handler := newTestServer(t)

	recorder := doRequest(t, handler, "POST", "/api/playlists/ZZ/load", nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusNotFound, recorder.Code)
	}
}

func TestChannelFilters(t *testing.T) {
	_, handler := newTestServer(t)
	loadUK(t, handler)

	quality := "fullhd"
	recorder := doRequest(t, handler, "PUT", "/api/channels/filters", map[string]interface{}{"quality": quality})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, recorder.Code)
	}

	var channels channelsResponse
	decodeBody(t, doRequest(t, handler, "GET", "/api/channels", nil), &channels)
	if channels.Total != 1 || channels.Channels[0].DisplayName != "Sky Sports" {
		t.Errorf("Expected only Sky Sports above the fullhd floor. Got: %+v", channels.Channels)
	}

	doRequest(t, handler, "PUT", "/api/channels/filters", map[string]interface{}{"quality": "all", "geoFreeOnly": true})
	decodeBody(t, doRequest(t, handler, "GET", "/api/channels", nil), &channels)
	if channels.Total != 1 || channels.Channels[0].DisplayName != "Sky Sports" {
		t.Errorf("Expected the geo-blocked channel to be hidden. Got: %+v", channels.Channels)
	}
}

func TestChannelSearchIsDebounced(t *testing.T) {
	_, handler := newTestServer(t)
	loadUK(t, handler)

	search := "sky"
	doRequest(t, handler, "PUT", "/api/channels/filters", map[string]interface{}{"search": search})

	deadline := time.Now().Add(time.Second)
	for {
		var channels channelsResponse
		decodeBody(t, doRequest(t, handler, "GET", "/api/channels", nil), &channels)
		if channels.Total == 1 && channels.Channels[0].DisplayName == "Sky Sports" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Search was never applied. Got: %+v", channels.Channels)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestToggleFavorite(t *testing.T) {
	_, handler := newTestServer(t)
	loadUK(t, handler)

	recorder := doRequest(t, handler, "POST", "/api/channels/favorite", map[string]string{"id": "bbc1"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, recorder.Code)
	}
	var response struct {
		ID        string `json:"id"`
		Favorited bool   `json:"favorited"`
	}
	decodeBody(t, recorder, &response)
	if !response.Favorited {
		t.Error("Expected the channel to be favorited")
	}

	var favoritesList map[string]struct {
		Name string `json:"name"`
	}
	decodeBody(t, doRequest(t, handler, "GET", "/api/favorites", nil), &favoritesList)
	if entry, ok := favoritesList["bbc1"]; !ok || entry.Name != "BBC One" {
		t.Errorf("Unexpected favorites listing. Got: %+v", favoritesList)
	}

	decodeBody(t, doRequest(t, handler, "POST", "/api/channels/favorite", map[string]string{"id": "bbc1"}), &response)
	if response.Favorited {
		t.Error("Expected the second toggle to unfavorite the channel")
	}
}

func TestToggleFavoriteUnknownChannel(t *testing.T) {
	_, handler := newTestServer(t)
	loadUK(t, handler)

	recorder := doRequest(t, handler, "POST", "/api/channels/favorite", map[string]string{"id": "nope"})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusNotFound, recorder.Code)
	}
}

func TestPlayChannel(t *testing.T) {
	_, handler := newTestServer(t)
	loadUK(t, handler)

	recorder := doRequest(t, handler, "POST", "/api/channels/play", map[string]string{"id": "bbc1"})
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusAccepted, recorder.Code)
	}

	var status playback.Status
	decodeBody(t, recorder, &status)
	if status.Channel == nil || status.Channel.ID != "bbc1" {
		t.Fatalf("Expected the selected channel in the status. Got: %+v", status)
	}

	deadline := time.Now().Add(time.Second)
	for {
		decodeBody(t, doRequest(t, handler, "GET", "/api/playback", nil), &status)
		if status.State == "playing" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Playback never reached playing. Got: %+v", status)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestPlayUnknownChannel(t *testing.T) {
	_, handler := newTestServer(t)
	loadUK(t, handler)

	recorder := doRequest(t, handler, "POST", "/api/channels/play", map[string]string{"id": "nope"})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusNotFound, recorder.Code)
	}
}

func TestRetryWithoutSelection(t *testing.T) {
	_, handler := newTestServer(t)

	recorder := doRequest(t, handler, "POST", "/api/playback/retry", nil)
	if recorder.Code != http.StatusConflict {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusConflict, recorder.Code)
	}
}

func TestCustomPlaylist(t *testing.T) {
	srv, handler := newTestServer(t)

	extra := filepath.Join(t.TempDir(), "mine.m3u")
	if err := os.WriteFile(extra, []byte(testPlaylist), 0644); err != nil {
		t.Fatalf("Failed to write custom playlist: %v", err)
	}

	recorder := doRequest(t, handler, "POST", "/api/playlists/custom", map[string]string{"path": extra})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d. Body: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	current := srv.session.CurrentPlaylist()
	if current == nil || current.Code != catalog.CustomPlaylistCode {
		t.Errorf("Expected the custom playlist to become current. Got: %+v", current)
	}

	// Registering another locator must replace the slot, not add a second one.
	doRequest(t, handler, "POST", "/api/playlists/custom", map[string]string{"path": extra})
	var response struct {
		Playlists []catalog.Playlist `json:"playlists"`
	}
	decodeBody(t, doRequest(t, handler, "GET", "/api/playlists", nil), &response)
	customs := 0
	for _, playlist := range response.Playlists {
		if playlist.Code == catalog.CustomPlaylistCode {
			customs++
		}
	}
	if customs != 1 {
		t.Errorf("Unexpected number of custom playlists. Expected: 1, Got: %d", customs)
	}
}

func TestCustomPlaylistMissingPath(t *testing.T) {
	_, handler := newTestServer(t)

	recorder := doRequest(t, handler, "POST", "/api/playlists/custom", map[string]string{"path": " "})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusBadRequest, recorder.Code)
	}
}
