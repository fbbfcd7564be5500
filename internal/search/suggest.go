package search

import (
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/sahilm/fuzzy"
)

// values implements [fuzzy.Source] over a list of distinct strings.
type values []string

func (v values) String(i int) string { return v[i] }
func (v values) Len() int            { return len(v) }

// Suggest returns up to limit distinct field values (titles, artists, albums, genres) that fuzzily match
// prefix, best match first. Ties keep catalog order. A non-positive limit returns every match.
func Suggest(tracks []models.Track, prefix string, limit int) []string {
	if prefix == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	var src values
	for _, t := range tracks {
		for _, f := range AllFields {
			v := f.value(t)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			src = append(src, v)
		}
	}

	matches := fuzzy.FindFrom(prefix, src)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
