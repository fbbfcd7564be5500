// package formatter converts tracks to and from the library's interchange and listing formats
// (delimited text, JSON, extended M3U, Markdown, plain text)
package formatter

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// EncodeM3U renders tracks as an extended M3U playlist.
//
// Each entry gets an #EXTINF line with its duration and an "Artist - Title.mp3" location,
// since the catalog does not record file paths.
func EncodeM3U(tracks []models.Track, name string) string {
	var buf strings.Builder

	buf.WriteString("#EXTM3U\n")
	if name != "" {
		fmt.Fprintf(&buf, "#PLAYLIST:%s\n", name)
	}

	for _, t := range tracks {
		label := fmt.Sprintf("%s - %s", t.Artist, t.Title)
		fmt.Fprintf(&buf, "#EXTINF:%d,%s\n", t.Duration, label)
		fmt.Fprintf(&buf, "%s.mp3\n", label)
	}

	return buf.String()
}

// DecodeM3U returns the location lines of a playlist.
//
// When the first line is #EXTM3U, every line starting with "#" is metadata and skipped.
func DecodeM3U(content string) []string {
	var (
		locations []string
		extended  bool
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	first := true
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if first {
			first = false
			if line == "#EXTM3U" {
				extended = true
				continue
			}
		}
		if line == "" || (extended && strings.HasPrefix(line, "#")) {
			continue
		}
		locations = append(locations, line)
	}

	return locations
}

// EncodeMarkdown renders tracks as a numbered Markdown listing under a heading.
func EncodeMarkdown(tracks []models.Track, title string) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(tracks))

	total := 0
	for _, t := range tracks {
		total += t.Duration
	}
	fmt.Fprintf(&buf, "**Duration**: %s\n\n", shared.FormatDuration(total))

	buf.WriteString("## Tracks\n\n")
	for i, t := range tracks {
		albumPart := ""
		if t.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, t.Artist, t.Title, albumPart, shared.FormatDuration(t.Duration))
	}

	return buf.String()
}

// EncodeText renders tracks as a plain numbered listing.
func EncodeText(tracks []models.Track, title string) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Library: %s\n", title)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))

	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, t.Artist, t.Title)
	}

	return buf.String()
}
