package formatter

import (
	"strconv"
	"strings"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// CSVHeader is the fixed header row written on export and skipped on import.
const CSVHeader = "Title,Artist,Duration,Album,Genre,Year,PlayCount,Rating"

// ParseCSVLine splits a single line into fields.
//
// A double quote toggles quoting, except that "" inside a quoted section yields one literal quote.
// Commas inside quotes are literal. Newlines are not special: callers split records beforehand.
func ParseCSVLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, current.String())
}

// EscapeCSVField quotes s, doubling its quotes, when it contains a comma, a double quote or a newline.
func EscapeCSVField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// EncodeCSVLine escapes and joins fields into one line.
func EncodeCSVLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeCSVField(f)
	}
	return strings.Join(escaped, ",")
}

// EncodeCSV renders tracks with the fixed header, one line per track, separated by "\n".
//
// Unknown years are written as empty cells; ratings use their shortest decimal form.
func EncodeCSV(tracks []models.Track) string {
	lines := make([]string, 0, len(tracks)+1)
	lines = append(lines, CSVHeader)

	for _, t := range tracks {
		year := ""
		if t.Year != 0 {
			year = strconv.Itoa(t.Year)
		}
		lines = append(lines, EncodeCSVLine([]string{
			t.Title,
			t.Artist,
			strconv.Itoa(t.Duration),
			t.Album,
			t.Genre,
			year,
			strconv.Itoa(t.PlayCount),
			shared.FormatFloat(t.Rating),
		}))
	}

	return strings.Join(lines, "\n")
}

// DecodeCSV parses delimited text into one candidate per data row.
//
// Content is trimmed and split on "\n" (a trailing "\r" is dropped from each line). The first line is
// always treated as the header. Fewer than two lines fails with [shared.ErrEmptyInput].
// Rows with fewer than three fields are dropped. Remaining columns map by position: title, artist,
// duration, album, genre, year, play count, rating. Candidates are not validated here.
func DecodeCSV(content string) ([]models.Candidate, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil, shared.ErrEmptyInput
	}

	candidates := make([]models.Candidate, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := ParseCSVLine(strings.TrimSuffix(line, "\r"))
		if len(values) < 3 {
			continue
		}
		col := func(i int) string {
			if i < len(values) {
				return values[i]
			}
			return ""
		}

		candidates = append(candidates, models.Candidate{
			Title:     col(0),
			Artist:    col(1),
			Duration:  col(2),
			Album:     col(3),
			Genre:     col(4),
			Year:      col(5),
			PlayCount: col(6),
			Rating:    col(7),
		})
	}

	return candidates, nil
}
