package stats

import (
	"cmp"
	"slices"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// TopN bounds every ranking in a [Report].
const TopN = 5

// GenreCount is one row of the genre distribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Report is a summary of a set of tracks.
type Report struct {
	TotalTracks       int            `json:"totalTracks"`
	TotalArtists      int            `json:"totalArtists"`
	TotalAlbums       int            `json:"totalAlbums"`
	TotalDuration     int            `json:"totalDuration"`
	FormattedDuration string         `json:"formattedDuration"`
	TotalPlayCount    int            `json:"totalPlayCount"`
	AverageRating     float64        `json:"averageRating"`
	Genres            []GenreCount   `json:"genres"`
	TopRated          []models.Track `json:"topRated"`
	MostPlayed        []models.Track `json:"mostPlayed"`
}

// Compute builds a [Report] over tracks. Tracks are not modified.
//
// Albums and genres with empty names are not counted. Genre ties keep first-seen order and
// ranking ties keep catalog order. The average rating covers rated tracks only.
func Compute(tracks []models.Track) Report {
	r := Report{
		TotalTracks: len(tracks),
		Genres:      []GenreCount{},
	}

	artists := make(map[string]struct{})
	albums := make(map[string]struct{})
	genreIdx := make(map[string]int)

	var (
		ratingSum float64
		rated     int
	)

	for _, t := range tracks {
		artists[t.Artist] = struct{}{}
		if t.Album != "" {
			albums[t.Album] = struct{}{}
		}
		if t.Genre != "" {
			if i, ok := genreIdx[t.Genre]; ok {
				r.Genres[i].Count++
			} else {
				genreIdx[t.Genre] = len(r.Genres)
				r.Genres = append(r.Genres, GenreCount{Genre: t.Genre, Count: 1})
			}
		}
		if t.Rating > 0 {
			ratingSum += t.Rating
			rated++
		}
		r.TotalDuration += t.Duration
		r.TotalPlayCount += t.PlayCount
	}

	r.TotalArtists = len(artists)
	r.TotalAlbums = len(albums)
	r.FormattedDuration = shared.FormatDuration(r.TotalDuration)
	if rated > 0 {
		r.AverageRating = ratingSum / float64(rated)
	}

	slices.SortStableFunc(r.Genres, func(a, b GenreCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	r.Genres = r.Genres[:min(len(r.Genres), TopN)]

	r.TopRated = top(tracks,
		func(t models.Track) bool { return t.Rating > 0 },
		func(a, b models.Track) int { return cmp.Compare(b.Rating, a.Rating) })
	r.MostPlayed = top(tracks,
		func(t models.Track) bool { return t.PlayCount > 0 },
		func(a, b models.Track) int { return cmp.Compare(b.PlayCount, a.PlayCount) })

	return r
}

func top(tracks []models.Track, keep func(models.Track) bool, order func(a, b models.Track) int) []models.Track {
	ranked := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if keep(t) {
			ranked = append(ranked, t)
		}
	}
	slices.SortStableFunc(ranked, order)
	return ranked[:min(len(ranked), TopN)]
}
