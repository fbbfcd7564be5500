package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/search"
	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/tasks"
)

func searchOptions(cmd *cli.Command) (search.Options, error) {
	mode, err := search.ParseMode(cmd.String("mode"))
	if err != nil {
		return search.Options{}, err
	}
	fields, err := search.ParseFields(cmd.String("fields"))
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{Mode: mode, Fields: fields, CaseSensitive: cmd.Bool("case-sensitive")}, nil
}

// Search prints tracks matching the query argument, optionally exporting them.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	opts, err := searchOptions(cmd)
	if err != nil {
		return err
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	r.logger.Debugf("searching for %q (mode %s)", query, opts.Mode)
	results, err := lib.Search(query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if name := cmd.String("export"); name != "" {
		if err := r.exportResults(ctx, cmd, name, results); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d %s for %q\n", len(results), shared.Pluralize(len(results), "result"), query)
	return r.writeTracks(results)
}

func (r *Runner) exportResults(ctx context.Context, cmd *cli.Command, name string, results []models.Track) error {
	f, err := tasks.ParseFormat(name)
	if err != nil {
		return err
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	p, err := lib.Export(f, tasks.ScopeSearch, results)
	if err != nil {
		return err
	}

	sink := tasks.FileSink{Dir: r.outputDir(cmd)}
	if err := lib.Deliver(ctx, sink, p); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	r.logger.Info("search results exported", "file", sink.Path(p))
	return nil
}

// Suggest prints field values that fuzzily match the prefix argument.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	prefix := cmd.StringArg("prefix")
	if prefix == "" {
		return fmt.Errorf("%w: prefix is required", shared.ErrMissingArgument)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	for _, s := range lib.Suggest(prefix, int(cmd.Int("limit"))) {
		r.writePlain("%s\n", s)
	}
	return nil
}
