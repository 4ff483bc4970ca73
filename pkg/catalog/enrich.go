package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a13labs/iptvdeck/pkg/m3uparser"
	"github.com/grafana/regexp"
)

var (
	bracketRegex     = regexp.MustCompile(`\s*\[(.*?)\]`)
	nameQualityRegex = regexp.MustCompile(`(?i)(\d{3,4}p)`)
	uhdRegex         = regexp.MustCompile(`(?i)4K|UHD`)
	nonDigitRegex    = regexp.MustCompile(`\D`)
	geoRegex         = regexp.MustCompile(`(?i)\[geo-blocked\]`)
	limitedRegex     = regexp.MustCompile(`(?i)\[not 24/7\]`)
	offlineRegex     = regexp.MustCompile(`(?i)\[offline\]`)
)

// Enhance derives the display metadata for one raw playlist entry. It is a
// pure function: the same entry, playlist and index always produce the same
// channel.
func Enhance(entry m3uparser.Entry, playlist Playlist, index int) Channel {
	cleanName := cleanChannelName(entry.Name)
	if cleanName == "" {
		cleanName = entry.Name
	}

	quality := extractQuality(entry)

	id := entry.Attributes["tvg-id"]
	if id == "" {
		// The raw URL keeps ids identical between re-parses as long as
		// order and URLs are unchanged.
		id = fmt.Sprintf("%s-%d-%s", playlist.Code, index, entry.URL)
	}

	group := entry.Attributes["group-title"]
	if group == "" {
		group = "General"
	}

	return Channel{
		ID:            id,
		DisplayName:   cleanName,
		OriginalName:  entry.Name,
		PlaylistCode:  playlist.Code,
		PlaylistLabel: playlist.Label,
		Group:         group,
		Quality:       quality,
		QualityValue:  qualityToValue(quality),
		Tags:          deriveChannelTags(entry.Name),
		Flags: Flags{
			GeoBlocked: geoRegex.MatchString(entry.Name),
			Limited:    limitedRegex.MatchString(entry.Name),
		},
		URL:        entry.URL,
		Duration:   entry.Duration,
		Attributes: entry.Attributes,
	}
}

// cleanChannelName strips every bracketed qualifier group from the name.
func cleanChannelName(name string) string {
	return strings.TrimSpace(bracketRegex.ReplaceAllString(name, ""))
}

// extractQuality resolves the quality label: explicit attribute first, then
// a resolution pattern in the name, then a 4K/UHD token, otherwise "SD".
func extractQuality(entry m3uparser.Entry) string {
	if quality := entry.Attributes["quality"]; quality != "" {
		return strings.ToUpper(quality)
	}
	if match := nameQualityRegex.FindStringSubmatch(entry.Name); match != nil {
		return strings.ToUpper(match[1])
	}
	if uhdRegex.MatchString(entry.Name) {
		return "2160P"
	}
	return "SD"
}

// qualityToValue ranks a quality label for sorting and tier filtering.
func qualityToValue(quality string) int {
	if uhdRegex.MatchString(quality) {
		return 2160
	}
	digits := nonDigitRegex.ReplaceAllString(quality, "")
	if value, err := strconv.Atoi(digits); err == nil {
		return value
	}
	return 480
}

// deriveChannelTags scans the original name for the known bracketed markers.
// The markers are independent: a channel can carry all three.
func deriveChannelTags(name string) []Tag {
	tags := make([]Tag, 0, 3)
	if geoRegex.MatchString(name) {
		tags = append(tags, Tag{Label: "Geo-blocked", Class: "badge-warning", Key: "geo"})
	}
	if limitedRegex.MatchString(name) {
		tags = append(tags, Tag{Label: "Not 24/7", Class: "badge-muted", Key: "limited"})
	}
	if offlineRegex.MatchString(name) {
		tags = append(tags, Tag{Label: "Offline", Class: "badge-warning", Key: "offline"})
	}
	return tags
}
