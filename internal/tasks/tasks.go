// package tasks implements catalog import and export operations.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// Merger accepts unvalidated records, returning the tracks it actually added.
//
// [catalog.Store] implements it.
type Merger interface {
	BulkAdd(cs []models.Candidate) []models.Track
}

// ImportResult summarizes one import.
type ImportResult struct {
	Format  Format         `json:"format"`
	Total   int            `json:"total"`   // Records decoded from the input
	Added   int            `json:"added"`   // Records that became tracks
	Skipped int            `json:"skipped"` // Invalid or duplicate records
	Tracks  []models.Track `json:"tracks"`  // Tracks added, in input order
}

// ImporterOpts configures an [Importer].
type ImporterOpts struct {
	Progress chan<- ProgressUpdate      // Optional progress channel
	Persist  func(context.Context) error // Optional hook run after a merge that added tracks
}

// Importer decodes interchange content and merges it into a catalog.
type Importer struct {
	target   Merger
	progress chan<- ProgressUpdate
	persist  func(context.Context) error
}

// NewImporter creates an Importer that merges into target.
func NewImporter(target Merger, opts ImporterOpts) *Importer {
	return &Importer{target: target, progress: opts.Progress, persist: opts.Persist}
}

// ImportCSV imports delimited text. The first line is always treated as a header.
func (i *Importer) ImportCSV(ctx context.Context, content string) (*ImportResult, error) {
	sendProgress(i.progress, parseUpdate(FormatCSV))
	candidates, err := formatter.DecodeCSV(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return i.merge(ctx, FormatCSV, candidates)
}

// ImportJSON imports a JSON array of records or an object holding them under "tracks".
func (i *Importer) ImportJSON(ctx context.Context, content []byte) (*ImportResult, error) {
	sendProgress(i.progress, parseUpdate(FormatJSON))
	candidates, err := formatter.DecodeJSON(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return i.merge(ctx, FormatJSON, candidates)
}

// ImportFile dispatches on the case-insensitive extension of name.
//
// Only .csv and .json are accepted; anything else fails with [shared.ErrUnsupportedFormat].
func (i *Importer) ImportFile(ctx context.Context, name string, content []byte) (*ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return i.ImportCSV(ctx, string(content))
	case ".json":
		return i.ImportJSON(ctx, content)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, name)
	}
}

func (i *Importer) merge(ctx context.Context, format Format, candidates []models.Candidate) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sendProgress(i.progress, mergeUpdate(len(candidates)))
	added := i.target.BulkAdd(candidates)

	res := &ImportResult{
		Format:  format,
		Total:   len(candidates),
		Added:   len(added),
		Skipped: len(candidates) - len(added),
		Tracks:  added,
	}

	if i.persist != nil && res.Added > 0 {
		sendProgress(i.progress, persistUpdate(res))
		if err := i.persist(ctx); err != nil {
			return res, fmt.Errorf("imported %d tracks but failed to save: %w", res.Added, err)
		}
	}
	return res, nil
}
