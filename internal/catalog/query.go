package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
	"golang.org/x/text/collate"
)

// SortKey selects a display ordering.
type SortKey int

const (
	ByTitle SortKey = iota
	ByArtist
	ByAlbum
	ByYear
	ByRating
	ByPlayCount
)

func (k SortKey) String() string {
	switch k {
	case ByTitle:
		return "title"
	case ByArtist:
		return "artist"
	case ByAlbum:
		return "album"
	case ByYear:
		return "year"
	case ByRating:
		return "rating"
	case ByPlayCount:
		return "playcount"
	default:
		return ""
	}
}

// ParseSortKey parses a sort key name as produced by [SortKey.String].
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return ByTitle, nil
	case "artist":
		return ByArtist, nil
	case "album":
		return ByAlbum, nil
	case "year":
		return ByYear, nil
	case "rating":
		return ByRating, nil
	case "playcount", "plays", "play_count":
		return ByPlayCount, nil
	}
	return 0, fmt.Errorf("%w: unknown sort key %q", shared.ErrInvalidArgument, s)
}

// Sorted returns the tracks ordered by key without changing stored order.
//
// Text keys sort ascending with locale-aware collation; numeric keys sort descending.
// Equal elements keep their insertion order.
func (s *Store) Sorted(key SortKey) []models.Track {
	return SortTracks(s.List(), key, s.Collator())
}

// SortTracks stably sorts tracks in place by key and returns them.
//
// A nil collator falls back to byte-wise comparison for text keys.
func SortTracks(tracks []models.Track, key SortKey, c *collate.Collator) []models.Track {
	text := func(a, b string) int {
		if c == nil {
			return strings.Compare(a, b)
		}
		return c.CompareString(a, b)
	}

	var fn func(a, b models.Track) int
	switch key {
	case ByTitle:
		fn = func(a, b models.Track) int { return text(a.Title, b.Title) }
	case ByArtist:
		fn = func(a, b models.Track) int { return text(a.Artist, b.Artist) }
	case ByAlbum:
		fn = func(a, b models.Track) int { return text(a.Album, b.Album) }
	case ByYear:
		fn = func(a, b models.Track) int { return cmp.Compare(b.Year, a.Year) }
	case ByRating:
		fn = func(a, b models.Track) int { return cmp.Compare(b.Rating, a.Rating) }
	case ByPlayCount:
		fn = func(a, b models.Track) int { return cmp.Compare(b.PlayCount, a.PlayCount) }
	default:
		return tracks
	}

	slices.SortStableFunc(tracks, fn)
	return tracks
}

// Collator returns the collator used for text sort keys.
func (s *Store) Collator() *collate.Collator {
	return collate.New(s.locale)
}

// Filter returns the tracks for which keep returns true, in stored order.
func (s *Store) Filter(keep func(models.Track) bool) []models.Track {
	var out []models.Track
	for _, t := range s.tracks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// YearRange returns tracks released between from and to inclusive. Tracks with unknown year are excluded.
func (s *Store) YearRange(from, to int) []models.Track {
	return s.Filter(func(t models.Track) bool {
		return t.Year != 0 && t.Year >= from && t.Year <= to
	})
}

// RatingRange returns tracks whose rating lies between lo and hi inclusive.
func (s *Store) RatingRange(lo, hi float64) []models.Track {
	return s.Filter(func(t models.Track) bool {
		return t.Rating >= lo && t.Rating <= hi
	})
}

// Artists returns the distinct artists in first-seen order.
func (s *Store) Artists() []string {
	return s.distinct(func(t models.Track) string { return t.Artist })
}

// Albums returns the distinct non-empty albums in first-seen order.
func (s *Store) Albums() []string {
	return s.distinct(func(t models.Track) string { return t.Album })
}

// Genres returns the distinct non-empty genres in first-seen order.
func (s *Store) Genres() []string {
	return s.distinct(func(t models.Track) string { return t.Genre })
}

func (s *Store) distinct(field func(models.Track) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.tracks {
		v := field(t)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
