package main

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/audiolib/internal/catalog"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// candidateFromFlags overlays every set field flag onto c. Values stay raw so the usual coercion rules apply.
func candidateFromFlags(cmd *cli.Command, c models.Candidate, titleFlag, artistFlag string) models.Candidate {
	fields := []struct {
		flag string
		dst  *string
	}{
		{titleFlag, &c.Title},
		{artistFlag, &c.Artist},
		{"duration", &c.Duration},
		{"album", &c.Album},
		{"genre", &c.Genre},
		{"year", &c.Year},
		{"rating", &c.Rating},
		{"plays", &c.PlayCount},
	}
	for _, f := range fields {
		if cmd.IsSet(f.flag) {
			*f.dst = cmd.String(f.flag)
		}
	}
	return c
}

// Add validates the flags into a track and adds it.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	track, err := lib.Add(ctx, candidateFromFlags(cmd, models.Candidate{}, "title", "artist"))
	if err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	return r.writePlain("✓ Added %s\n", track)
}

// Edit updates the track identified by --title and --artist. Fields without a flag keep their value.
func (r *Runner) Edit(ctx context.Context, cmd *cli.Command) error {
	title, artist := cmd.String("title"), cmd.String("artist")

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	current, err := lib.Get(title, artist)
	if err != nil {
		return err
	}

	track, err := lib.Update(ctx, title, artist, candidateFromFlags(cmd, current.Candidate(), "new-title", "new-artist"))
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}
	return r.writePlain("✓ Updated %s\n", track)
}

// Remove deletes by exact key when both --title and --artist are given, otherwise by whichever one is.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	title, artist := cmd.String("title"), cmd.String("artist")
	if title == "" && artist == "" && !cmd.Bool("all") {
		return fmt.Errorf("%w: --title, --artist or --all is required", shared.ErrMissingArgument)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	var n int
	switch {
	case cmd.Bool("all"):
		n = lib.Len()
		err = lib.Clear(ctx)
	case title != "" && artist != "":
		if err = lib.Remove(ctx, title, artist); err == nil {
			n = 1
		}
	case title != "":
		n, err = lib.RemoveByTitle(ctx, title)
	default:
		n, err = lib.RemoveByArtist(ctx, artist)
	}
	if err != nil {
		return fmt.Errorf("failed to remove: %w", err)
	}

	return r.writePlain("✓ Removed %d %s\n", n, shared.Pluralize(n, "track"))
}

// List prints the library in the requested order.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	key, err := catalog.ParseSortKey(cmd.String("sort"))
	if err != nil {
		return err
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	var tracks []models.Track
	years := cmd.IsSet("from-year") || cmd.IsSet("to-year")
	ratings := cmd.IsSet("min-rating") || cmd.IsSet("max-rating")
	lo, hi := cmd.Float("min-rating"), cmd.Float("max-rating")

	switch {
	case years:
		to := int(cmd.Int("to-year"))
		if !cmd.IsSet("to-year") {
			to = math.MaxInt
		}
		tracks = lib.YearRange(int(cmd.Int("from-year")), to, key)
		if ratings {
			tracks = slices.DeleteFunc(tracks, func(t models.Track) bool { return t.Rating < lo || t.Rating > hi })
		}
	case ratings:
		tracks = lib.RatingRange(lo, hi, key)
	default:
		tracks = lib.Sorted(key)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("%d %s, sorted by %s\n", len(tracks), shared.Pluralize(len(tracks), "track"), key)
	return r.writeTracks(tracks)
}

// Values prints the distinct values of one field.
func (r *Runner) Values(ctx context.Context, cmd *cli.Command) error {
	field := cmd.StringArg("field")
	if field == "" {
		return fmt.Errorf("%w: field is required (artists, albums or genres)", shared.ErrMissingArgument)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	values, err := lib.Values(field)
	if err != nil {
		return err
	}
	for _, v := range values {
		r.writePlain("%s\n", v)
	}
	return nil
}

// Sample loads the built-in sample catalog.
func (r *Runner) Sample(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	added, err := lib.LoadSample(ctx, cmd.Bool("replace"))
	if err != nil {
		return fmt.Errorf("failed to load sample data: %w", err)
	}
	return r.writePlain("✓ Loaded %d sample %s (%d total)\n", added, shared.Pluralize(added, "track"), lib.Len())
}
