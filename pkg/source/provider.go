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
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a13labs/iptvdeck/pkg/upstream"
)

// PlaylistRef is a playlist known to the source before any parsing: an
// identity code and the locator its bytes can be read from.
type PlaylistRef struct {
	Code     string
	Name     string
	Path     string
	Filename string
}

// Provider enumerates the known playlists and resolves locators to text.
type Provider interface {
	ListPlaylists() ([]PlaylistRef, error)
	Read(locator string) (string, error)
}

// DirProvider lists playlist files from a streams directory and reads
// playlist bytes from local files or http(s) locators.
type DirProvider struct {
	dir  string
	conn *upstream.Connection
}

func NewDirProvider(dir string, timeout int) *DirProvider {
	return &DirProvider{
		dir:  dir,
		conn: upstream.NewConnection(nil, timeout),
	}
}

// ListPlaylists enumerates the .m3u/.m3u8 files in the streams directory,
// sorted by code. The playlist code is the uppercased file basename.
func (p *DirProvider) ListPlaylists() ([]PlaylistRef, error) {
	files, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}

	refs := make([]PlaylistRef, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".m3u" && ext != ".m3u8" {
			continue
		}
		code := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
		refs = append(refs, PlaylistRef{
			Code:     code,
			Name:     code,
			Path:     filepath.Join(p.dir, name),
			Filename: name,
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Code < refs[j].Code
	})

	return refs, nil
}

// Read resolves a playlist locator to text. http(s) locators are fetched
// through the upstream connection, anything else is a local file path.
func (p *DirProvider) Read(locator string) (string, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		body, status, _, err := p.conn.Fetch(locator)
		if err != nil {
			return "", err
		}
		if status/100 != 2 {
			return "", fmt.Errorf("http response code (%d)", status)
		}
		return string(body), nil
	}

	content, err := os.ReadFile(locator)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
