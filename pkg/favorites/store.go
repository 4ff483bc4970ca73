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
package favorites

import (
	"encoding/json"
	"os"

	"github.com/a13labs/iptvdeck/pkg/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// Entry is the persisted snapshot of a favorited channel. It carries enough
// to display the favorite without the original channel object.
type Entry struct {
	Name     string `json:"name"`
	Playlist string `json:"playlist"`
	URL      string `json:"url"`
}

// Store is the process-wide set of favorited channel identities, backed by
// a single JSON file that is loaded at startup and rewritten in full on
// every mutation. The mapping is small and toggles are infrequent, so a
// full rewrite is acceptable; large favorite sets would want incremental
// persistence.
type Store struct {
	path    string
	entries *xsync.MapOf[string, Entry]
}

// NewStore builds a store persisted at path and loads it. A missing or
// corrupt file yields an empty store, never an error.
func NewStore(path string) *Store {
	s := &Store{
		path:    path,
		entries: xsync.NewMapOf[string, Entry](),
	}
	s.Load()
	return s
}

// Load replaces the in-memory mapping with the persisted one. Storage
// failures degrade to an empty mapping.
func (s *Store) Load() {
	s.entries.Clear()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("Unable to load favorites from %s: %v", s.path, err)
		}
		return
	}

	loaded := make(map[string]Entry)
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warnf("Unable to parse favorites file %s: %v", s.path, err)
		return
	}

	for id, entry := range loaded {
		s.entries.Store(id, entry)
	}
}

// Toggle flips the favorite state of a channel id and persists the whole
// mapping. Returns the new state. The in-memory state changes even when
// persistence fails, so the user flow is never blocked.
func (s *Store) Toggle(id, name, playlistCode, url string) bool {
	if id == "" {
		return false
	}

	favorited := false
	if _, ok := s.entries.Load(id); ok {
		s.entries.Delete(id)
	} else {
		s.entries.Store(id, Entry{Name: name, Playlist: playlistCode, URL: url})
		favorited = true
	}

	s.persist()
	return favorited
}

// IsFavorite reports whether the channel id is favorited.
func (s *Store) IsFavorite(id string) bool {
	_, ok := s.entries.Load(id)
	return ok
}

// Snapshot returns a copy of the favorites mapping.
func (s *Store) Snapshot() map[string]Entry {
	snapshot := make(map[string]Entry, s.entries.Size())
	s.entries.Range(func(id string, entry Entry) bool {
		snapshot[id] = entry
		return true
	})
	return snapshot
}

func (s *Store) persist() {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		logger.Warnf("Unable to encode favorites: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		logger.Warnf("Unable to persist favorites to %s: %v", s.path, err)
	}
}
