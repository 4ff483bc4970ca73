package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers builds the API router. All state flows through the Server; the
// handlers only translate between HTTP and the session/controller methods.
func (s *Server) Handlers() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/playlists", s.handleListPlaylists).Methods("GET")
	api.HandleFunc("/playlists/search", s.handleSearchPlaylists).Methods("PUT")
	api.HandleFunc("/playlists/custom", s.handleCustomPlaylist).Methods("POST")
	api.HandleFunc("/playlists/{code}/load", s.handleLoadPlaylist).Methods("POST")

	api.HandleFunc("/channels", s.handleListChannels).Methods("GET")
	api.HandleFunc("/channels/filters", s.handleChannelFilters).Methods("PUT")
	api.HandleFunc("/channels/favorite", s.handleToggleFavorite).Methods("POST")
	api.HandleFunc("/channels/play", s.handlePlay).Methods("POST")

	api.HandleFunc("/favorites", s.handleListFavorites).Methods("GET")

	api.HandleFunc("/playback", s.handlePlaybackStatus).Methods("GET")
	api.HandleFunc("/playback/retry", s.handleRetry).Methods("POST")

	return r
}
