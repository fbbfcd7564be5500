package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// Stats prints the library summary.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	report := lib.Stats()
	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Library Statistics")
	r.writePlain("Tracks:         %d\n", report.TotalTracks)
	r.writePlain("Artists:        %d\n", report.TotalArtists)
	r.writePlain("Albums:         %d\n", report.TotalAlbums)
	r.writePlain("Total duration: %s\n", report.FormattedDuration)
	r.writePlain("Total plays:    %d\n", report.TotalPlayCount)
	r.writePlain("Average rating: %s\n", shared.FormatFloat(report.AverageRating))

	if len(report.Genres) > 0 {
		r.writePlainln("Genres")
		rows := make([][]string, len(report.Genres))
		for i, g := range report.Genres {
			rows[i] = []string{g.Genre, fmt.Sprint(g.Count)}
		}
		r.writePlain("%s\n", renderTable([]string{"Genre", "Tracks"}, rows, map[int]bool{2: true}))
	}

	r.writeRanking("Top rated", report.TopRated, func(t models.Track) string { return shared.FormatRating(t.Rating) })
	r.writeRanking("Most played", report.MostPlayed, func(t models.Track) string { return fmt.Sprint(t.PlayCount) })
	return nil
}

func (r *Runner) writeRanking(title string, tracks []models.Track, value func(models.Track) string) {
	if len(tracks) == 0 {
		return
	}

	r.writePlainln("%s", title)
	rows := make([][]string, len(tracks))
	for i, t := range tracks {
		rows[i] = []string{fmt.Sprint(i + 1), t.Title, t.Artist, value(t)}
	}
	r.writePlain("%s\n", renderTable([]string{"#", "Title", "Artist", ""}, rows, map[int]bool{1: true, 4: true}))
}
