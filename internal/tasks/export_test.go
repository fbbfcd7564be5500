package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

func exportTracks() []models.Track {
	return []models.Track{
		{Title: "Imagine", Artist: "John Lennon", Duration: 183, Album: "Imagine", Genre: "Pop", Year: 1971, Rating: 4.8, PlayCount: 120},
		{Title: "Hello, World", Artist: `The "Band"`, Duration: 200},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"m3u8", FormatM3U, false},
		{"md", FormatMarkdown, false},
		{"text", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScopeFilename(t *testing.T) {
	tests := []struct {
		scope  Scope
		format Format
		want   string
	}{
		{ScopeLibrary, FormatCSV, "audio_library.csv"},
		{ScopeLibrary, FormatJSON, "audio_library.json"},
		{ScopeLibrary, FormatMarkdown, "audio_library.md"},
		{ScopeView, FormatCSV, "audio_library_export.csv"},
		{ScopeSearch, FormatCSV, "search_results.csv"},
	}

	for _, tt := range tests {
		if got := tt.scope.Filename(tt.format); got != tt.want {
			t.Errorf("%s.Filename(%s) = %q, want %q", tt.scope, tt.format, got, tt.want)
		}
	}

	if _, err := ParseScope("everything"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("ParseScope() error = %v, want ErrInvalidArgument", err)
	}
}

func TestExport(t *testing.T) {
	e := NewExporter()

	t.Run("csv", func(t *testing.T) {
		tracks := exportTracks()
		p, err := e.Export(tracks, FormatCSV, ScopeSearch)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if p.Filename != "search_results.csv" || p.ContentType != "text/csv" || p.Count != 2 {
			t.Errorf("Export() = %+v", p)
		}
		if string(p.Body) != formatter.EncodeCSV(tracks) {
			t.Errorf("Body = %q", p.Body)
		}
		if tracks[1].Title != "Hello, World" {
			t.Error("Export modified its input")
		}
	})

	t.Run("json", func(t *testing.T) {
		p, err := e.Export(exportTracks(), FormatJSON, ScopeLibrary)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		var doc formatter.Document
		if err := json.Unmarshal(p.Body, &doc); err != nil {
			t.Fatalf("Body is not JSON: %v", err)
		}
		if len(doc.Tracks) != 2 || p.ContentType != "application/json" {
			t.Errorf("Export() = %+v", p)
		}
	})

	t.Run("listings", func(t *testing.T) {
		for _, f := range []Format{FormatM3U, FormatMarkdown, FormatText} {
			p, err := e.Export(exportTracks(), f, ScopeLibrary)
			if err != nil {
				t.Fatalf("Export(%s) error = %v", f, err)
			}
			if !strings.Contains(string(p.Body), "John Lennon - Imagine") {
				t.Errorf("Export(%s) body missing track: %s", f, p.Body)
			}
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := e.Export(nil, Format("xml"), ScopeLibrary); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("Export() error = %v, want ErrUnsupportedFormat", err)
		}
	})
}

type recordingLog struct {
	names []string
	err   error
}

func (r *recordingLog) RecordExport(_ context.Context, p *Payload) error {
	r.names = append(r.names, p.Filename)
	return r.err
}

func TestSinks(t *testing.T) {
	t.Run("FileSink writes payload", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")
		sink := FileSink{Dir: dir}
		p := &Payload{Filename: "audio_library.csv", Body: []byte("x")}

		if err := sink.Deliver(context.Background(), p); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "audio_library.csv"))
		if err != nil || string(data) != "x" {
			t.Errorf("ReadFile() = %q, %v", data, err)
		}
	})

	t.Run("FileSink honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := FileSink{Dir: t.TempDir()}.Deliver(ctx, &Payload{Filename: "a.csv"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Deliver() error = %v, want context.Canceled", err)
		}
	})

	t.Run("LoggedSink records after delivery", func(t *testing.T) {
		log := &recordingLog{}
		sink := LoggedSink{Next: FileSink{Dir: t.TempDir()}, Log: log}
		if err := sink.Deliver(context.Background(), &Payload{Filename: "a.csv"}); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
		if len(log.names) != 1 || log.names[0] != "a.csv" {
			t.Errorf("recorded = %q", log.names)
		}
	})
}

func TestBulkExport(t *testing.T) {
	t.Run("writes every format and a manifest", func(t *testing.T) {
		dir := t.TempDir()
		progress := make(chan ProgressUpdate, 20)

		res, err := NewExporter().BulkExport(context.Background(), progress, exportTracks(), Formats, BulkExportOpts{OutputDir: dir})
		if err != nil {
			t.Fatalf("BulkExport() error = %v", err)
		}
		if res.TotalFormats != len(Formats) || res.Successful != len(Formats) || res.Failed != 0 {
			t.Errorf("BulkExport() = %+v", res)
		}

		for _, name := range []string{"audio_library.csv", "audio_library.json", "audio_library.m3u", "audio_library.md", "audio_library.txt", ManifestName} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("missing %s: %v", name, err)
			}
		}

		data, err := os.ReadFile(res.ManifestPath)
		if err != nil {
			t.Fatalf("ReadFile(manifest) error = %v", err)
		}
		var manifest BulkExportResult
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("manifest is not JSON: %v", err)
		}
		if manifest.TrackCount != 2 || len(manifest.Results) != len(Formats) {
			t.Errorf("manifest = %+v", manifest)
		}

		close(progress)
		count := 0
		for u := range progress {
			if u.Phase != Export {
				t.Errorf("Phase = %v, want export", u.Phase)
			}
			count++
		}
		if count == 0 {
			t.Error("no progress updates sent")
		}
	})

	t.Run("reports failing formats", func(t *testing.T) {
		res, err := NewExporter().BulkExport(context.Background(), nil, exportTracks(),
			[]Format{FormatCSV, Format("xml")}, BulkExportOpts{OutputDir: t.TempDir(), NumWorkers: 8})
		if err != nil {
			t.Fatalf("BulkExport() error = %v", err)
		}
		if res.Successful != 1 || res.Failed != 1 {
			t.Errorf("BulkExport() = %+v", res)
		}
		for _, r := range res.Results {
			if r.Format == "xml" && (r.Success || !errors.Is(r.Err, shared.ErrUnsupportedFormat)) {
				t.Errorf("xml result = %+v", r)
			}
		}
	})

	t.Run("records through a logged sink", func(t *testing.T) {
		dir := t.TempDir()
		log := &recordingLog{}
		_, err := NewExporter().BulkExport(context.Background(), nil, exportTracks(), []Format{FormatCSV},
			BulkExportOpts{OutputDir: dir, Sink: LoggedSink{Next: FileSink{Dir: dir}, Log: log}})
		if err != nil {
			t.Fatalf("BulkExport() error = %v", err)
		}
		if len(log.names) != 1 {
			t.Errorf("recorded = %q", log.names)
		}
	})

	t.Run("no formats", func(t *testing.T) {
		_, err := NewExporter().BulkExport(context.Background(), nil, nil, nil, BulkExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("BulkExport() error = %v, want ErrInvalidArgument", err)
		}
	})
}
