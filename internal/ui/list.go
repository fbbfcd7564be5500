package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.Artist }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	parts := []string{i.track.Artist}
	if i.track.Album != "" {
		parts = append(parts, i.track.Album)
	}
	parts = append(parts, shared.FormatDuration(i.track.Duration))
	if i.track.Rating > 0 {
		parts = append(parts, shared.FormatRating(i.track.Rating))
	}
	return strings.Join(parts, " • ")
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

func listTitle(count int, sortKey fmt.Stringer) string {
	return fmt.Sprintf("Library • %d %s • by %s", count, shared.Pluralize(count, "track"), sortKey)
}
