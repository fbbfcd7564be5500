package shared

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDuration renders seconds as clock time: M:SS below an hour, H:MM:SS otherwise.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatRating renders a 0–5 rating as filled and empty stars, or "-" when unrated.
func FormatRating(rating float64) string {
	if rating <= 0 {
		return "-"
	}
	stars := int(math.Round(rating))
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// FormatFloat renders f in its shortest decimal form (5 → "5", 4.5 → "4.5").
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON marshals v, indenting with two spaces when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Pluralize returns word with an "s" suffix unless n is exactly one.
func Pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
