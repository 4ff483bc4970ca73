package m3uparser

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/grafana/regexp"
)

// Entry is a single channel record parsed from an M3U playlist. It only
// exists between parsing and enrichment.
type Entry struct {
	Duration   int               // Seconds, -1 means live/unknown.
	Attributes map[string]string // key="value" pairs from the EXTINF line.
	Name       string            // Free-text title, may embed bracketed qualifiers.
	URL        string            // The line following the EXTINF directive.
}

var (
	extinfRegex    = regexp.MustCompile(`^#EXTINF:(-?\d+)(?:\s+(.+))?,(.+)$`)
	attributeRegex = regexp.MustCompile(`(\w+(?:-\w+)*)="([^"]+)"`)
	qualityRegex   = regexp.MustCompile(`(?i)(\d{3,4}p)`)
)

// Parse scans playlist text line by line and returns the channel records in
// playlist order. Malformed lines are skipped, never fatal: an EXTINF line
// that does not match the directive grammar is dropped, a URL line with no
// pending EXTINF is dropped, and a pending EXTINF with no URL before the
// next record or end of input is never emitted.
func Parse(content string) []Entry {
	entries := make([]Entry, 0)

	var pending *Entry
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#EXTINF:") {
			match := extinfRegex.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			duration, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			pending = &Entry{
				Duration:   duration,
				Attributes: parseAttributes(match[2]),
				Name:       strings.TrimSpace(match[3]),
			}
			continue
		}

		if line == "" || strings.HasPrefix(line, "#") {
			// Comments and other directives carry nothing we need.
			continue
		}

		if pending != nil {
			pending.URL = line
			entries = append(entries, *pending)
			pending = nil
		}
	}

	return entries
}

// parseAttributes extracts every key="value" pair from the EXTINF attribute
// segment. Duplicate keys keep the last occurrence. A resolution pattern
// (3-4 digits followed by 'p') anywhere in the segment is recorded under the
// synthetic "quality" key.
func parseAttributes(segment string) map[string]string {
	attributes := make(map[string]string)
	if segment == "" {
		return attributes
	}

	for _, match := range attributeRegex.FindAllStringSubmatch(segment, -1) {
		attributes[match[1]] = match[2]
	}

	if match := qualityRegex.FindStringSubmatch(segment); match != nil {
		attributes["quality"] = match[1]
	}

	return attributes
}
