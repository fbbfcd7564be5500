package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// ManifestName is the file BulkExport writes alongside the exports.
const ManifestName = "export_manifest.json"

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	OutputDir  string // Base output directory (default: audiolib_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 3, at most one per format)
	Scope      Scope  // Names the files (default: library)
	Sink       Sink   // Delivery target (default: FileSink on OutputDir)
}

// FormatExportResult is the outcome of exporting one format.
type FormatExportResult struct {
	Format  Format `json:"format"`
	File    string `json:"file,omitempty"`
	Bytes   int    `json:"bytes"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// BulkExportResult summarizes a bulk export and doubles as its manifest.
type BulkExportResult struct {
	CreatedAt       time.Time            `json:"created_at"`
	TrackCount      int                  `json:"track_count"`
	TotalFormats    int                  `json:"total_formats"`
	Successful      int                  `json:"successful"`
	Failed          int                  `json:"failed"`
	OutputDirectory string               `json:"output_directory"`
	ManifestPath    string               `json:"-"`
	Results         []FormatExportResult `json:"results"`
}

// BulkExport renders tracks in every requested format concurrently and writes a manifest.
//
// Individual format failures are reported in the result. The returned error covers setup failures
// and a manifest that could not be written.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	tracks []models.Track,
	formats []Format,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no export formats", shared.ErrInvalidArgument)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("audiolib_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	opts.NumWorkers = min(opts.NumWorkers, len(formats))
	if opts.Scope == "" {
		opts.Scope = ScopeLibrary
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %v", shared.ErrIO, err)
	}
	if opts.Sink == nil {
		opts.Sink = FileSink{Dir: opts.OutputDir}
	}

	result := &BulkExportResult{
		CreatedAt:       time.Now().UTC(),
		TrackCount:      len(tracks),
		TotalFormats:    len(formats),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FormatExportResult, 0, len(formats)),
	}

	jobs := make(chan Format, len(formats))
	results := make(chan FormatExportResult, len(formats))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, tracks, opts)
	}

	go func() {
		defer close(jobs)
		for i, f := range formats {
			sendProgress(prog, exportingUpdate(i+1, len(formats), f))
			select {
			case <-ctx.Done():
				return
			case jobs <- f:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			sendProgress(prog, exportCompletedUpdate(completed, len(formats), res))
		} else {
			result.Failed++
			sendProgress(prog, exportFailedUpdate(completed, len(formats), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("%w: export completed but failed to write manifest: %v", shared.ErrIO, err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker renders and delivers formats from the jobs channel.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan Format,
	results chan<- FormatExportResult,
	tracks []models.Track,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for f := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingle(ctx, f, tracks, opts)
	}
}

func (e *Exporter) exportSingle(ctx context.Context, f Format, tracks []models.Track, opts BulkExportOpts) FormatExportResult {
	res := FormatExportResult{Format: f}

	p, err := e.Export(tracks, f, opts.Scope)
	if err == nil {
		err = opts.Sink.Deliver(ctx, p)
	}
	if err != nil {
		res.Err = fmt.Errorf("%s export failed: %w", f, err)
		res.Error = res.Err.Error()
		return res
	}

	res.File = p.Filename
	res.Bytes = len(p.Body)
	res.Success = true
	return res
}
