package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/audiolib/internal/catalog"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/repositories"
	"github.com/desertthunder/audiolib/internal/search"
	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/tasks"
)

// outputDir returns --output, falling back to the configured export directory.
func (r *Runner) outputDir(cmd *cli.Command) string {
	if dir := cmd.String("output"); dir != "" {
		return dir
	}
	return r.config.Library.ExportDir
}

// logProgress drains progress into the debug log until it is closed.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for update := range progress {
		r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
	}
	close(done)
}

// Import merges a .csv or .json file into the library.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file is required", shared.ErrMissingArgument)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	res, err := lib.Import(ctx, filepath.Base(path), content, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(res, true)
	}

	r.writePlain("✓ Imported %d of %d %s from %s", res.Added, res.Total, shared.Pluralize(res.Total, "record"), path)
	if res.Skipped > 0 {
		r.writePlain(" (%d skipped)", res.Skipped)
	}
	return r.writePlain("\n")
}

// Export renders one scope in one format, or the whole library in every format with --all.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		return r.bulkExport(ctx, cmd)
	}

	f, err := tasks.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	scope, err := tasks.ParseScope(cmd.String("scope"))
	if err != nil {
		return err
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	var tracks []models.Track
	switch scope {
	case tasks.ScopeView:
		key, err := catalog.ParseSortKey(cmd.String("sort"))
		if err != nil {
			return err
		}
		tracks = lib.Sorted(key)
	case tasks.ScopeSearch:
		mode, err := search.ParseMode(cmd.String("mode"))
		if err != nil {
			return err
		}
		if tracks, err = lib.Search(cmd.String("query"), search.Options{Mode: mode}); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	p, err := lib.Export(f, scope, tracks)
	if err != nil {
		return err
	}

	if cmd.Bool("stdout") {
		if _, err := r.output.Write(p.Body); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	sink := tasks.FileSink{Dir: r.outputDir(cmd)}
	if err := lib.Deliver(ctx, sink, p); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return r.writePlain("✓ Exported %d %s to %s\n", p.Count, shared.Pluralize(p.Count, "track"), sink.Path(p))
}

func (r *Runner) bulkExport(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("output")
	if dir == "" {
		dir = filepath.Join(r.config.Library.ExportDir, fmt.Sprintf("audiolib_export_%d", time.Now().Unix()))
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	res, err := lib.BulkExport(ctx, progress, tasks.Formats, tasks.BulkExportOpts{
		OutputDir:  dir,
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.writePlainHeader("Export Complete")
	r.writePlain("Directory: %s\n", res.OutputDirectory)
	r.writePlain("Tracks:    %d\n", res.TrackCount)
	r.writePlain("Formats:   %d/%d\n\n", res.Successful, res.TotalFormats)

	rows := make([][]string, len(res.Results))
	for i, fr := range res.Results {
		status := "✓"
		if !fr.Success {
			status = fr.Error
		}
		rows[i] = []string{string(fr.Format), fr.File, fmt.Sprint(fr.Bytes), status}
	}
	r.writePlain("%s\n", renderTable([]string{"Format", "File", "Bytes", "Status"}, rows, map[int]bool{3: true}))

	if res.Failed > 0 {
		return fmt.Errorf("%w: %d of %d formats failed", shared.ErrIO, res.Failed, res.TotalFormats)
	}
	return nil
}

// Playlist reports which entries of an M3U playlist are in the library.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file is required", shared.ErrMissingArgument)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	match := lib.Playlist(string(content))
	if cmd.Bool("json") {
		return r.writeJSON(match, cmd.Bool("pretty"))
	}

	r.writePlain("Matched %d of %d entries\n", len(match.Found), len(match.Found)+len(match.Missing))
	if len(match.Found) > 0 {
		r.writeTracks(match.Found)
	}
	if len(match.Missing) > 0 {
		r.writePlainln("Missing:")
		for _, m := range match.Missing {
			r.writePlain("  • %s\n", m)
		}
	}
	return nil
}

// Exports prints the export log.
func (r *Runner) Exports(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.library(ctx); err != nil {
		return err
	}
	if r.db == nil {
		return fmt.Errorf("%w: the export log requires sqlite storage", shared.ErrNotImplemented)
	}

	records, err := repositories.NewExportLogRepository(r.db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}
	if len(records) == 0 {
		return r.writePlain("No exports recorded.\n")
	}

	rows := make([][]string, len(records))
	for i, e := range records {
		rows[i] = []string{e.CreatedAt.Local().Format(time.DateTime), e.Filename, fmt.Sprint(e.TrackCount), fmt.Sprint(e.Bytes)}
	}
	return r.writePlain("%s\n", renderTable([]string{"When", "File", "Tracks", "Bytes"}, rows, map[int]bool{3: true, 4: true}))
}
