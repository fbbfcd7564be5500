package tasks

import (
	"path"
	"strings"

	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/models"
)

// PlaylistMatch is the result of resolving an M3U playlist against a catalog.
type PlaylistMatch struct {
	Found   []models.Track `json:"found"`
	Missing []string       `json:"missing"`
}

// ResolvePlaylist looks up each playlist location in tracks.
//
// Locations are matched on their base name without extension, in the "Artist - Title" form
// that [formatter.EncodeM3U] writes. Matching is exact; unmatched locations are returned as is.
func ResolvePlaylist(tracks []models.Track, content string) PlaylistMatch {
	byLabel := make(map[string]models.Track, len(tracks))
	for _, t := range tracks {
		byLabel[t.Artist+" - "+t.Title] = t
	}

	m := PlaylistMatch{Found: []models.Track{}, Missing: []string{}}
	for _, loc := range formatter.DecodeM3U(content) {
		base := path.Base(strings.ReplaceAll(loc, `\`, "/"))
		label := strings.TrimSuffix(base, path.Ext(base))
		if t, ok := byLabel[label]; ok {
			m.Found = append(m.Found, t)
		} else {
			m.Missing = append(m.Missing, loc)
		}
	}
	return m
}
