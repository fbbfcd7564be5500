package catalog

import (
	"errors"
	"testing"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
	"golang.org/x/text/language"
)

func sample() *Store {
	s := NewStore(StoreOpts{})
	s.BulkAdd([]models.Candidate{
		{Title: "Hotel California", Artist: "Eagles", Duration: "391", Album: "Hotel California", Genre: "Rock", Year: "1976", Rating: "4.5", PlayCount: "98"},
		{Title: "Imagine", Artist: "John Lennon", Duration: "183", Album: "Imagine", Genre: "Rock", Year: "1971", Rating: "5", PlayCount: "120"},
		{Title: "Billie Jean", Artist: "Michael Jackson", Duration: "294", Album: "Thriller", Genre: "Pop", Year: "1982", Rating: "4.5", PlayCount: "89"},
		{Title: "Stairway to Heaven", Artist: "Led Zeppelin", Duration: "482", Album: "Led Zeppelin IV", Genre: "Rock", Year: "1971", Rating: "5", PlayCount: "142"},
		{Title: "Untitled", Artist: "Nobody", Duration: "60"},
	})
	return s
}

func TestSorted(t *testing.T) {
	tc := []struct {
		key  SortKey
		want []string
	}{
		{ByTitle, []string{"Billie Jean", "Hotel California", "Imagine", "Stairway to Heaven", "Untitled"}},
		{ByArtist, []string{"Hotel California", "Imagine", "Stairway to Heaven", "Billie Jean", "Untitled"}},
		{ByAlbum, []string{"Untitled", "Hotel California", "Imagine", "Stairway to Heaven", "Billie Jean"}},
		{ByYear, []string{"Billie Jean", "Hotel California", "Imagine", "Stairway to Heaven", "Untitled"}},
		{ByRating, []string{"Imagine", "Stairway to Heaven", "Hotel California", "Billie Jean", "Untitled"}},
		{ByPlayCount, []string{"Stairway to Heaven", "Imagine", "Hotel California", "Billie Jean", "Untitled"}},
	}

	for _, tt := range tc {
		t.Run(tt.key.String(), func(t *testing.T) {
			s := sample()
			before := keys(s.List())

			if got := keys(s.Sorted(tt.key)); !equalStrings(got, tt.want) {
				t.Errorf("Sorted(%s) = %v, want %v", tt.key, got, tt.want)
			}
			if after := keys(s.List()); !equalStrings(before, after) {
				t.Errorf("Sorted mutated stored order: %v", after)
			}
		})
	}
}

func TestSortedCollation(t *testing.T) {
	s := NewStore(StoreOpts{Locale: language.English})
	s.BulkAdd([]models.Candidate{
		{Title: "fish", Artist: "A", Duration: "1"},
		{Title: "Éclair", Artist: "A", Duration: "1"},
		{Title: "Dog", Artist: "A", Duration: "1"},
	})

	if got := keys(s.Sorted(ByTitle)); !equalStrings(got, []string{"Dog", "Éclair", "fish"}) {
		t.Errorf("locale-aware sort = %v", got)
	}

	raw := SortTracks(s.List(), ByTitle, nil)
	if got := keys(raw); !equalStrings(got, []string{"Dog", "fish", "Éclair"}) {
		t.Errorf("byte-wise sort = %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	for _, name := range []string{"title", "artist", "album", "year", "rating", "playcount"} {
		key, err := ParseSortKey(name)
		if err != nil {
			t.Fatalf("ParseSortKey(%q) error = %v", name, err)
		}
		if key.String() != name {
			t.Errorf("round trip of %q = %q", name, key.String())
		}
	}

	if key, err := ParseSortKey(""); err != nil || key != ByTitle {
		t.Errorf("empty key should default to title, got %v %v", key, err)
	}
	if _, err := ParseSortKey("length"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestQueries(t *testing.T) {
	s := sample()

	if got := s.Artists(); len(got) != 5 || got[0] != "Eagles" {
		t.Errorf("Artists() = %v", got)
	}
	if got := s.Albums(); len(got) != 4 {
		t.Errorf("Albums() should skip empty albums, got %v", got)
	}
	if got := s.Genres(); !equalStrings(got, []string{"Rock", "Pop"}) {
		t.Errorf("Genres() = %v", got)
	}
	if got := keys(s.YearRange(1970, 1976)); !equalStrings(got, []string{"Hotel California", "Imagine", "Stairway to Heaven"}) {
		t.Errorf("YearRange() = %v", got)
	}
	if got := keys(s.RatingRange(4.6, 5)); !equalStrings(got, []string{"Imagine", "Stairway to Heaven"}) {
		t.Errorf("RatingRange() = %v", got)
	}
	if got := s.Filter(func(models.Track) bool { return false }); len(got) != 0 {
		t.Errorf("Filter() = %v", got)
	}
}
