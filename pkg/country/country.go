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
package country

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Metadata is the display name and flag derived from a playlist code.
type Metadata struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
}

const genericFlag = "🌐"

// Manual overrides for codes with no standard territorial meaning, or where
// a convenience alias should map to a full territory name.
var manualOverrides = map[string]Metadata{
	"XK":     {Name: "Kosovo", Flag: "🇽🇰"},
	"UK":     {Name: "United Kingdom", Flag: "🇬🇧"},
	"INTL":   {Name: "International", Flag: genericFlag},
	"CUSTOM": {Name: "Custom Playlist", Flag: "🗂️"},
}

var (
	regionNames = display.Regions(language.English)
	titleCaser  = cases.Title(language.English)
)

// Resolve maps a playlist code to a display name and flag. It never fails:
// unknown codes fall back to a humanized reading of the code itself with a
// generic globe flag.
func Resolve(code string) Metadata {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		normalized = "INTL"
	}

	if metadata, ok := manualOverrides[normalized]; ok {
		return metadata
	}

	name := ""
	if len(normalized) == 2 {
		if region, err := language.ParseRegion(normalized); err == nil {
			name = regionNames.Name(region)
		}
	}

	if name == "" {
		name = humanize(normalized)
	}

	flag := genericFlag
	if len(normalized) == 2 {
		flag = flagEmoji(normalized)
	}

	return Metadata{Name: name, Flag: flag}
}

// humanize turns a raw code like "LATIN_AMERICA" into "Latin America".
func humanize(code string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(code), "_", " "))
}

// flagEmoji synthesizes a regional-indicator pictograph for a two-letter
// code by offsetting each letter into the Unicode regional indicator block.
func flagEmoji(code string) string {
	if len(code) != 2 {
		return genericFlag
	}
	var flag strings.Builder
	for _, char := range strings.ToUpper(code) {
		if char < 'A' || char > 'Z' {
			return genericFlag
		}
		flag.WriteRune(127397 + char)
	}
	return flag.String()
}
