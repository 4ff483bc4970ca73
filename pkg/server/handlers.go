/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/a13labs/iptvdeck/pkg/catalog"
	"github.com/a13labs/iptvdeck/pkg/logger"
	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Playlists []catalog.Playlist `json:"playlists"`
		Current   *catalog.Playlist  `json:"current,omitempty"`
	}{
		Playlists: s.session.VisiblePlaylists(),
		Current:   s.session.CurrentPlaylist(),
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSearchPlaylists records the playlist search term. The term is
// debounced, so the filtered collection reflects it only after the debounce
// interval has passed without further input.
func (s *Server) handleSearchPlaylists(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.session.SetPlaylistSearch(request.Term)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleCustomPlaylist(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(request.Path) == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	count, err := s.LoadCustomPlaylist(request.Path)
	if err != nil {
		logger.Errorf("Failed to load custom playlist: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":     catalog.CustomPlaylistCode,
		"channels": count,
	})
}

func (s *Server) handleLoadPlaylist(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	count, err := s.LoadPlaylist(code)
	if err != nil {
		if _, ok := s.session.FindPlaylist(code); !ok {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Errorf("Failed to load playlist %s: %v", code, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":     strings.ToUpper(code),
		"channels": count,
	})
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Playlist *catalog.Playlist   `json:"playlist,omitempty"`
		Filter   catalog.FilterState `json:"filter"`
		Channels []catalog.Channel   `json:"channels"`
		Total    int                 `json:"total"`
	}{
		Playlist: s.session.CurrentPlaylist(),
		Filter:   s.session.FilterState(),
		Channels: s.session.VisibleChannels(),
	}
	response.Total = len(response.Channels)
	writeJSON(w, http.StatusOK, response)
}

// handleChannelFilters applies partial filter updates. The search term is
// debounced; every other control takes effect immediately. Absent fields
// leave their control untouched.
func (s *Server) handleChannelFilters(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Search        *string `json:"search"`
		Quality       *string `json:"quality"`
		GeoFreeOnly   *bool   `json:"geoFreeOnly"`
		FavoritesOnly *bool   `json:"favoritesOnly"`
		Sort          *string `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if request.Quality != nil {
		s.session.SetQualityFloor(catalog.QualityFloor(*request.Quality))
	}
	if request.GeoFreeOnly != nil {
		s.session.SetGeoFreeOnly(*request.GeoFreeOnly)
	}
	if request.FavoritesOnly != nil {
		s.session.SetFavoritesOnly(*request.FavoritesOnly)
	}
	if request.Sort != nil {
		s.session.SetSortKey(catalog.SortKey(*request.Sort))
	}
	if request.Search != nil {
		s.session.SetChannelSearch(*request.Search)
	}

	writeJSON(w, http.StatusOK, s.session.FilterState())
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	favorited, err := s.ToggleFavorite(request.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        request.ID,
		"favorited": favorited,
	})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.favorites.Snapshot())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.Play(request.ID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, s.controller.Status())
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if !s.controller.Retry() {
		writeError(w, http.StatusConflict, "no channel selected")
		return
	}
	writeJSON(w, http.StatusAccepted, s.controller.Status())
}

func (s *Server) handlePlaybackStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}
