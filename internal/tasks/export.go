package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatM3U      Format = "m3u"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatJSON, FormatM3U, FormatMarkdown, FormatText}

// ParseFormat resolves a format name, accepting "md" and "text" as aliases. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "m3u", "m3u8":
		return FormatM3U, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: format %q", shared.ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatM3U:
		return "audio/x-mpegurl"
	case FormatMarkdown:
		return "text/markdown"
	case FormatText:
		return "text/plain"
	default:
		return "text/csv"
	}
}

// Scope names which set of tracks an export covers. It only affects the filename.
type Scope string

const (
	ScopeLibrary Scope = "library" // whole catalog
	ScopeView    Scope = "view"    // currently displayed tracks
	ScopeSearch  Scope = "search"  // last search results
)

// ParseScope resolves a scope name. Empty means library.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case "":
		return ScopeLibrary, nil
	case ScopeLibrary, ScopeView, ScopeSearch:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: scope %q", shared.ErrInvalidArgument, s)
	}
}

// Filename returns the download name for an export of this scope in format f.
func (s Scope) Filename(f Format) string {
	base := "audio_library"
	switch s {
	case ScopeView:
		base = "audio_library_export"
	case ScopeSearch:
		base = "search_results"
	}
	return base + "." + f.Ext()
}

// Payload is a rendered export ready for delivery.
type Payload struct {
	Filename    string
	ContentType string
	Body        []byte
	Count       int // Tracks rendered
}

// Sink delivers payloads somewhere: a directory, an HTTP response, a log.
type Sink interface {
	Deliver(ctx context.Context, p *Payload) error
}

// FileSink writes payloads into Dir, creating it when missing.
type FileSink struct {
	Dir string
}

// Deliver writes p to Dir/p.Filename.
func (s FileSink) Deliver(ctx context.Context, p *Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create output directory: %v", shared.ErrIO, err)
	}
	if err := os.WriteFile(s.Path(p), p.Body, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrIO, p.Filename, err)
	}
	return nil
}

// Path returns where p is written.
func (s FileSink) Path(p *Payload) string {
	return filepath.Join(s.Dir, p.Filename)
}

// ExportLog records delivered payloads.
type ExportLog interface {
	RecordExport(ctx context.Context, p *Payload) error
}

// LoggedSink delivers through Next and then records the payload in Log.
//
// A recording failure is returned but the payload has already been delivered.
type LoggedSink struct {
	Next Sink
	Log  ExportLog
}

// Deliver implements [Sink].
func (s LoggedSink) Deliver(ctx context.Context, p *Payload) error {
	if err := s.Next.Deliver(ctx, p); err != nil {
		return err
	}
	if s.Log == nil {
		return nil
	}
	return s.Log.RecordExport(ctx, p)
}

// Exporter renders tracks into payloads.
type Exporter struct {
	Title  string // Heading for markdown and text listings, playlist name for m3u
	Pretty bool   // Indent JSON output
}

// NewExporter creates an Exporter with the default library title.
func NewExporter() *Exporter {
	return &Exporter{Title: "Audio Library", Pretty: true}
}

// Export renders tracks in format f, named for scope s. The tracks are not modified.
func (e *Exporter) Export(tracks []models.Track, f Format, s Scope) (*Payload, error) {
	p := &Payload{
		Filename:    s.Filename(f),
		ContentType: f.ContentType(),
		Count:       len(tracks),
	}

	switch f {
	case FormatCSV:
		p.Body = []byte(formatter.EncodeCSV(tracks))
	case FormatJSON:
		data, err := formatter.EncodeJSON(tracks, e.Pretty)
		if err != nil {
			return nil, err
		}
		p.Body = data
	case FormatM3U:
		p.Body = []byte(formatter.EncodeM3U(tracks, e.Title))
	case FormatMarkdown:
		p.Body = []byte(formatter.EncodeMarkdown(tracks, e.Title))
	case FormatText:
		p.Body = []byte(formatter.EncodeText(tracks, e.Title))
	default:
		return nil, fmt.Errorf("%w: format %q", shared.ErrUnsupportedFormat, f)
	}
	return p, nil
}
