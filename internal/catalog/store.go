package catalog

import (
	"fmt"
	"slices"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
	"golang.org/x/text/language"
)

// Store is an ordered collection of unique tracks.
type Store struct {
	tracks []models.Track
	index  map[models.Key]int
	locale language.Tag
}

// StoreOpts configures a [Store].
type StoreOpts struct {
	Locale language.Tag // Collation language for [Store.Sorted]; defaults to English
}

// NewStore creates an empty Store.
func NewStore(opts StoreOpts) *Store {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	return &Store{
		index:  make(map[models.Key]int),
		locale: opts.Locale,
	}
}

// Len returns the number of tracks.
func (s *Store) Len() int {
	return len(s.tracks)
}

// List returns a copy of all tracks in insertion order.
func (s *Store) List() []models.Track {
	return slices.Clone(s.tracks)
}

// Get returns the track with the given key.
func (s *Store) Get(title, artist string) (models.Track, bool) {
	i, ok := s.index[models.Key{Title: title, Artist: artist}]
	if !ok {
		return models.Track{}, false
	}
	return s.tracks[i], true
}

// Contains reports whether a track with the given key exists.
func (s *Store) Contains(title, artist string) bool {
	_, ok := s.index[models.Key{Title: title, Artist: artist}]
	return ok
}

// Add validates c and appends it.
func (s *Store) Add(c models.Candidate) (models.Track, error) {
	track, err := c.Validate()
	if err != nil {
		return models.Track{}, err
	}
	if _, exists := s.index[track.Key()]; exists {
		return models.Track{}, fmt.Errorf("%w: %s", shared.ErrDuplicateKey, track.Key())
	}

	s.append(track)
	return track, nil
}

// BulkAdd appends every candidate that validates and whose key is not yet present, in source order.
//
// Invalid and duplicate candidates are skipped. The returned slice holds the tracks actually added.
func (s *Store) BulkAdd(cs []models.Candidate) []models.Track {
	added := make([]models.Track, 0, len(cs))
	for _, c := range cs {
		track, err := c.Validate()
		if err != nil {
			continue
		}
		if _, exists := s.index[track.Key()]; exists {
			continue
		}
		s.append(track)
		added = append(added, track)
	}
	return added
}

// Update replaces the track identified by (title, artist) with c, keeping its position.
//
// The new key may differ from the original. It fails with [shared.ErrNotFound] when the original is absent
// and with [shared.ErrDuplicateKey] when the new key belongs to another track.
func (s *Store) Update(title, artist string, c models.Candidate) (models.Track, error) {
	orig := models.Key{Title: title, Artist: artist}
	i, ok := s.index[orig]
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %s", shared.ErrNotFound, orig)
	}

	track, err := c.Validate()
	if err != nil {
		return models.Track{}, err
	}

	if j, exists := s.index[track.Key()]; exists && j != i {
		return models.Track{}, fmt.Errorf("%w: %s", shared.ErrDuplicateKey, track.Key())
	}

	delete(s.index, orig)
	s.tracks[i] = track
	s.index[track.Key()] = i
	return track, nil
}

// Remove deletes the track with the given key and reports whether one was removed.
func (s *Store) Remove(title, artist string) bool {
	i, ok := s.index[models.Key{Title: title, Artist: artist}]
	if !ok {
		return false
	}
	s.tracks = slices.Delete(s.tracks, i, i+1)
	s.reindex()
	return true
}

// RemoveByTitle deletes every track with the given title and returns how many were removed.
func (s *Store) RemoveByTitle(title string) int {
	return s.removeWhere(func(t models.Track) bool { return t.Title == title })
}

// RemoveByArtist deletes every track by the given artist and returns how many were removed.
func (s *Store) RemoveByArtist(artist string) int {
	return s.removeWhere(func(t models.Track) bool { return t.Artist == artist })
}

// Clear removes all tracks.
func (s *Store) Clear() {
	s.tracks = nil
	clear(s.index)
}

// Replace discards the current contents and loads tracks through [Store.BulkAdd] rules.
//
// Returns the number of tracks dropped as invalid or duplicate.
func (s *Store) Replace(tracks []models.Track) int {
	s.Clear()
	cs := make([]models.Candidate, len(tracks))
	for i, t := range tracks {
		cs[i] = t.Candidate()
	}
	return len(tracks) - len(s.BulkAdd(cs))
}

func (s *Store) append(t models.Track) {
	s.index[t.Key()] = len(s.tracks)
	s.tracks = append(s.tracks, t)
}

func (s *Store) removeWhere(match func(models.Track) bool) int {
	before := len(s.tracks)
	s.tracks = slices.DeleteFunc(s.tracks, match)
	removed := before - len(s.tracks)
	if removed > 0 {
		s.reindex()
	}
	return removed
}

func (s *Store) reindex() {
	clear(s.index)
	for i, t := range s.tracks {
		s.index[t.Key()] = i
	}
}
