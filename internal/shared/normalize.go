// Utilities for normalizing raw video metadata into track display fields.
//
// Upstream titles arrive as "Artist - Song (Official Video) [HD]" and channel
// names as "ArtistVEVO" or "Artist - Topic". These helpers are pure: the same
// raw input always produces the same output, so callers can normalize without
// touching the network.
package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PlaceholderThumbnail is served when no upstream thumbnail resolves.
const PlaceholderThumbnail = "/placeholder-album.svg"

// maxArtistLen caps how long a title prefix may be before it stops looking
// like an artist name.
const maxArtistLen = 50

var (
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*\(.*?\)`),            // parenthetical annotations
		regexp.MustCompile(`\s*\[.*?\]`),            // bracketed annotations
		regexp.MustCompile(`(?i)\s*-\s*Official.*$`), // trailing "Official ..." suffixes
		regexp.MustCompile(`\s*\|\s*.*$`),           // everything after a pipe
		regexp.MustCompile(`(?i)\s*-\s*YouTube$`),
		regexp.MustCompile(`(?i)\s*-\s*Audio$`),
		regexp.MustCompile(`(?i)\s*-\s*Video$`),
		regexp.MustCompile(`(?i)\s*HD$`),
		regexp.MustCompile(`(?i)\s*4K$`),
	}

	channelSuffixPattern = regexp.MustCompile(`(?i)\s*(VEVO|Official|Records|Music|Channel|TV).*$`)
	topicSuffixPattern   = regexp.MustCompile(`(?i)\s*-\s*Topic$`)
)

// CleanTitle strips annotation noise from a raw video title. Falls back to
// the raw title when stripping would leave nothing.
func CleanTitle(title string) string {
	if title == "" {
		return "Unknown Track"
	}

	cleaned := title
	for _, pattern := range titlePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return title
	}
	return cleaned
}

// ExtractArtist derives an artist name from a raw title and channel name.
//
// Prefers an "Artist - Title" or "Artist: Title" split when the left segment
// is non-empty and shorter than 50 characters, then falls back to the channel
// name with known publisher suffixes stripped.
func ExtractArtist(title, channel string) string {
	if title != "" {
		for _, sep := range []string{" - ", ": "} {
			parts := strings.SplitN(title, sep, 2)
			if len(parts) < 2 {
				continue
			}
			candidate := strings.TrimSpace(parts[0])
			if candidate != "" && len(candidate) < maxArtistLen {
				return candidate
			}
		}
	}

	if channel != "" {
		cleaned := channelSuffixPattern.ReplaceAllString(channel, "")
		cleaned = topicSuffixPattern.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned != "" {
			return cleaned
		}
		return channel
	}

	return "Unknown Artist"
}

// FormatDuration renders integer seconds as M:SS, switching to H:MM:SS once
// minutes reach 60. Missing, zero, or negative input formats as "0:00".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}

	mins := seconds / 60
	secs := seconds % 60

	if mins >= 60 {
		hours := mins / 60
		mins = mins % 60
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}

	return fmt.Sprintf("%d:%02d", mins, secs)
}

// ParseDuration is the inverse of [FormatDuration]: it reads M:SS or
// H:MM:SS display strings back into integer seconds. Malformed input
// parses as 0.
func ParseDuration(display string) int {
	parts := strings.Split(strings.TrimSpace(display), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// Thumbnail is one candidate cover image from an upstream response.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// BestThumbnail picks the highest-resolution candidate by pixel area,
// falling back to [PlaceholderThumbnail] when no candidate has a usable URL.
func BestThumbnail(thumbnails []Thumbnail) string {
	best := ""
	bestArea := -1

	for _, t := range thumbnails {
		if t.URL == "" {
			continue
		}
		area := t.Width * t.Height
		if area > bestArea {
			best = t.URL
			bestArea = area
		}
	}

	if best == "" {
		return PlaceholderThumbnail
	}
	return best
}

// NormalizeQuery lowercases and collapses whitespace in a search query so
// cache lookups hit regardless of casing or spacing.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

var playlistIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`playlist\?list=([a-zA-Z0-9_-]+)`),
}

// ExtractPlaylistID pulls the playlist identifier out of a YouTube or
// YouTube Music playlist URL. Returns an empty string when the URL does not
// match a recognized playlist-link shape.
func ExtractPlaylistID(url string) string {
	for _, pattern := range playlistIDPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}
