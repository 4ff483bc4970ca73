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
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/a13labs/iptvdeck/pkg/catalog"
	"github.com/a13labs/iptvdeck/pkg/favorites"
	"github.com/a13labs/iptvdeck/pkg/logger"
	"github.com/a13labs/iptvdeck/pkg/m3uparser"
	"github.com/a13labs/iptvdeck/pkg/playback"
	"github.com/a13labs/iptvdeck/pkg/source"
)

// Server wires one catalog session, the favorites store and the playback
// controller behind the HTTP API. It is the single state owner for the
// process; nothing here is a package global.
type Server struct {
	config     ConfigData
	provider   source.Provider
	favorites  *favorites.Store
	session    *catalog.Session
	controller *playback.Controller
	httpServer *http.Server
}

func New(config ConfigData, provider source.Provider, player playback.Player) *Server {
	favoritesStore := favorites.NewStore(config.FavoritesFile)
	engine := catalog.NewQueryEngine(favoritesStore.IsFavorite)

	return &Server{
		config:     config,
		provider:   provider,
		favorites:  favoritesStore,
		session:    catalog.NewSession(engine, time.Duration(config.SearchDebounceMs)*time.Millisecond),
		controller: playback.NewController(player, time.Duration(config.SettleDelayMs)*time.Millisecond),
	}
}

// RefreshPlaylists re-reads the playlist collection from the source.
func (s *Server) RefreshPlaylists() error {
	refs, err := s.provider.ListPlaylists()
	if err != nil {
		return err
	}

	playlists := make([]catalog.Playlist, 0, len(refs))
	for _, ref := range refs {
		playlists = append(playlists, catalog.DecoratePlaylist(ref.Code, ref.Name, ref.Path))
	}
	s.session.SetPlaylists(playlists)

	logger.Infof("Loaded %d playlists", len(playlists))
	return nil
}

// LoadPlaylist parses and enriches the playlist identified by code and
// installs its channels as the active collection. Returns the channel
// count.
func (s *Server) LoadPlaylist(code string) (int, error) {
	playlist, ok := s.session.FindPlaylist(code)
	if !ok {
		return 0, fmt.Errorf("playlist not found: %s", code)
	}

	content, err := s.provider.Read(playlist.Source)
	if err != nil {
		return 0, fmt.Errorf("failed to read playlist %s: %w", playlist.Code, err)
	}

	entries := m3uparser.Parse(content)
	channels := make([]catalog.Channel, 0, len(entries))
	for i, entry := range entries {
		channels = append(channels, catalog.Enhance(entry, playlist, i))
	}

	s.session.SetChannels(playlist, channels)

	logger.Infof("Loaded playlist %s with %d channels", playlist.Code, len(channels))
	return len(channels), nil
}

// LoadCustomPlaylist registers the CUSTOM slot for a user-supplied locator
// and loads it.
func (s *Server) LoadCustomPlaylist(locator string) (int, error) {
	playlist := catalog.DecoratePlaylist(catalog.CustomPlaylistCode, "Custom Playlist", locator)
	s.session.RegisterCustom(playlist)
	return s.LoadPlaylist(catalog.CustomPlaylistCode)
}

// ToggleFavorite flips the favorite state of a channel in the active
// playlist and returns the new state.
func (s *Server) ToggleFavorite(id string) (bool, error) {
	channel, ok := s.session.FindChannel(id)
	if !ok {
		return false, fmt.Errorf("channel not found: %s", id)
	}

	favorited := s.favorites.Toggle(channel.ID, channel.DisplayName, channel.PlaylistCode, channel.URL)
	if s.session.FilterState().FavoritesOnly {
		s.session.Refresh()
	}
	return favorited, nil
}

// Play selects a channel of the active playlist for playback.
func (s *Server) Play(id string) error {
	channel, ok := s.session.FindChannel(id)
	if !ok {
		return fmt.Errorf("channel not found: %s", id)
	}
	s.controller.SelectChannel(channel)
	return nil
}

// Start serves the HTTP API until Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.Handlers(),
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server and cancels pending debounced work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.session.Close()
	s.controller.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
