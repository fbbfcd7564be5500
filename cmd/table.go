package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

var trackHeaders = []string{"#", "Title", "Artist", "Album", "Genre", "Year", "Time", "Rating", "Plays"}

// numeric columns of trackHeaders, 1-based
var trackNumeric = map[int]bool{1: true, 6: true, 7: true, 9: true}

// renderTable draws rows under headers with rounded borders. Columns listed in right are right-aligned.
func renderTable(headers []string, rows [][]string, right map[int]bool) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if right[i+1] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func trackRows(tracks []models.Track) [][]string {
	rows := make([][]string, len(tracks))
	for i, t := range tracks {
		year := ""
		if t.Year != 0 {
			year = fmt.Sprint(t.Year)
		}
		rows[i] = []string{
			fmt.Sprint(i + 1),
			t.Title,
			t.Artist,
			t.Album,
			t.Genre,
			year,
			shared.FormatDuration(t.Duration),
			shared.FormatRating(t.Rating),
			fmt.Sprint(t.PlayCount),
		}
	}
	return rows
}

// writeTracks prints tracks as a table, or a notice when there are none.
func (r *Runner) writeTracks(tracks []models.Track) error {
	if len(tracks) == 0 {
		return r.writePlain("No tracks found.\n")
	}
	return r.writePlain("%s\n", renderTable(trackHeaders, trackRows(tracks), trackNumeric))
}
