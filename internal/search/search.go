package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// Mode selects how a field is compared to the query.
type Mode int

const (
	Substring Mode = iota
	Exact
	Prefix
	Fuzzy
	Pattern
)

func (m Mode) String() string {
	switch m {
	case Substring:
		return "substring"
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Fuzzy:
		return "fuzzy"
	case Pattern:
		return "pattern"
	default:
		return ""
	}
}

// ParseMode parses a mode name. "regex" is accepted for [Pattern] and the empty string for [Substring].
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return Substring, nil
	case "exact":
		return Exact, nil
	case "prefix":
		return Prefix, nil
	case "fuzzy":
		return Fuzzy, nil
	case "pattern", "regex":
		return Pattern, nil
	}
	return 0, fmt.Errorf("%w: unknown search mode %q", shared.ErrInvalidArgument, s)
}

// Field names a searchable track field.
type Field int

const (
	Title Field = iota
	Artist
	Album
	Genre
)

// AllFields lists every searchable field.
var AllFields = []Field{Title, Artist, Album, Genre}

func (f Field) String() string {
	switch f {
	case Title:
		return "title"
	case Artist:
		return "artist"
	case Album:
		return "album"
	case Genre:
		return "genre"
	default:
		return ""
	}
}

func (f Field) value(t models.Track) string {
	switch f {
	case Title:
		return t.Title
	case Artist:
		return t.Artist
	case Album:
		return t.Album
	case Genre:
		return t.Genre
	default:
		return ""
	}
}

// ParseField parses a single field name.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return Title, nil
	case "artist":
		return Artist, nil
	case "album":
		return Album, nil
	case "genre":
		return Genre, nil
	}
	return 0, fmt.Errorf("%w: unknown search field %q", shared.ErrInvalidArgument, s)
}

// ParseFields parses a comma-separated field list. An empty list selects every field.
func ParseFields(s string) ([]Field, error) {
	if strings.TrimSpace(s) == "" {
		return AllFields, nil
	}

	var fields []Field
	for _, part := range strings.Split(s, ",") {
		f, err := ParseField(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Options controls a [Search] call.
type Options struct {
	Mode          Mode
	Fields        []Field // Empty means every field
	CaseSensitive bool
}

// matcher reports whether a single field value matches.
type matcher func(value string) bool

// Search returns the tracks matching query under opts, in their original order.
//
// The query is trimmed; an empty query fails with [shared.ErrEmptyQuery] and an expression that does not
// compile in [Pattern] mode fails with [shared.ErrInvalidPattern]. Empty field values never match.
func Search(tracks []models.Track, query string, opts Options) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.ErrEmptyQuery
	}

	match, err := newMatcher(query, opts)
	if err != nil {
		return nil, err
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = AllFields
	}

	results := []models.Track{}
	for _, t := range tracks {
		for _, f := range fields {
			if v := f.value(t); v != "" && match(v) {
				results = append(results, t)
				break
			}
		}
	}
	return results, nil
}

func newMatcher(query string, opts Options) (matcher, error) {
	fold := func(s string) string {
		if opts.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	q := fold(query)

	switch opts.Mode {
	case Exact:
		return func(v string) bool { return fold(v) == q }, nil
	case Prefix:
		return func(v string) bool { return strings.HasPrefix(fold(v), q) }, nil
	case Fuzzy:
		return func(v string) bool { return FuzzyMatch(v, query) }, nil
	case Pattern:
		expr := query
		if !opts.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidPattern, err)
		}
		return re.MatchString, nil
	case Substring:
		return func(v string) bool { return strings.Contains(fold(v), q) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown search mode %d", shared.ErrInvalidArgument, opts.Mode)
	}
}

// FuzzyMatch reports whether the runes of pattern occur in s in order, ignoring case.
// An empty pattern matches everything.
func FuzzyMatch(s, pattern string) bool {
	p := []rune(strings.ToLower(pattern))
	if len(p) == 0 {
		return true
	}

	i := 0
	for _, r := range strings.ToLower(s) {
		if r == p[i] {
			i++
			if i == len(p) {
				return true
			}
		}
	}
	return false
}
