// package models defines the track record of the audio library catalog
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/audiolib/internal/shared"
)

// Track is a single catalog entry.
type Track struct {
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Duration  int     `json:"duration"` // Duration in seconds
	Album     string  `json:"album"`
	Genre     string  `json:"genre"`
	Year      int     `json:"year"`      // 0 when unknown
	Rating    float64 `json:"rating"`    // 0–5, 0 when unrated
	PlayCount int     `json:"playCount"` // never negative
}

// Key identifies a [Track] within a catalog.
type Key struct {
	Title  string
	Artist string
}

func (k Key) String() string {
	return fmt.Sprintf("%q by %q", k.Title, k.Artist)
}

// Candidate is unvalidated track input with every field in its raw string form.
type Candidate struct {
	Title     string
	Artist    string
	Duration  string
	Album     string
	Genre     string
	Year      string
	Rating    string
	PlayCount string
}

// Key returns the identity of t.
func (t Track) Key() Key {
	return Key{Title: t.Title, Artist: t.Artist}
}

// Validate reports whether t satisfies the required-field rules.
func (t Track) Validate() error {
	switch {
	case t.Title == "":
		return fmt.Errorf("%w: title", shared.ErrMissingField)
	case t.Artist == "":
		return fmt.Errorf("%w: artist", shared.ErrMissingField)
	case t.Duration <= 0:
		return fmt.Errorf("%w: duration", shared.ErrMissingField)
	}
	return nil
}

// Candidate converts t back into raw input. Validating the result yields t again.
func (t Track) Candidate() Candidate {
	c := Candidate{
		Title:    t.Title,
		Artist:   t.Artist,
		Duration: strconv.Itoa(t.Duration),
		Album:    t.Album,
		Genre:    t.Genre,
	}
	if t.Year != 0 {
		c.Year = strconv.Itoa(t.Year)
	}
	if t.Rating != 0 {
		c.Rating = shared.FormatFloat(t.Rating)
	}
	if t.PlayCount != 0 {
		c.PlayCount = strconv.Itoa(t.PlayCount)
	}
	return c
}

// String renders t as "Artist - Title [M:SS]".
func (t Track) String() string {
	return fmt.Sprintf("%s - %s [%s]", t.Artist, t.Title, shared.FormatDuration(t.Duration))
}

// Validate converts c into a [Track].
//
// Title and artist must be non-empty and duration must parse to a positive number of seconds,
// otherwise the error wraps [shared.ErrMissingField].
// Optional numeric fields that fail to parse become zero.
func (c Candidate) Validate() (Track, error) {
	t := Track{
		Title:     c.Title,
		Artist:    c.Artist,
		Duration:  ParseInt(c.Duration),
		Album:     c.Album,
		Genre:     c.Genre,
		Year:      ParseInt(c.Year),
		Rating:    ParseFloat(c.Rating),
		PlayCount: max(ParseInt(c.PlayCount), 0),
	}

	if strings.TrimSpace(t.Title) == "" {
		t.Title = ""
	}
	if strings.TrimSpace(t.Artist) == "" {
		t.Artist = ""
	}

	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	return t, nil
}
