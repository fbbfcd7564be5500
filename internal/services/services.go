// package services implements the library session shared by the CLI, TUI and HTTP server
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"github.com/desertthunder/audiolib/internal/catalog"
	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/repositories"
	"github.com/desertthunder/audiolib/internal/search"
	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/stats"
	"github.com/desertthunder/audiolib/internal/tasks"
)

// LibraryOpts configures a [Library].
type LibraryOpts struct {
	Storage   repositories.Storage // Persistence backend; nil keeps the catalog in memory only
	ExportLog tasks.ExportLog      // Optional record of delivered exports
	Locale    language.Tag         // Collation language for sorted listings
	Logger    *log.Logger          // Defaults to log.Default()
	Title     string               // Library name used in listings and playlists
}

// Library is a catalog session: a store, its persistence, and the operations built on them.
type Library struct {
	mu        sync.Mutex
	store     *catalog.Store
	storage   repositories.Storage
	exportLog tasks.ExportLog
	exporter  *tasks.Exporter
	logger    *log.Logger
}

// Open creates a Library and loads the newest persisted snapshot.
//
// A snapshot that fails to decode is logged and the session starts empty. Storage failures are returned.
func Open(ctx context.Context, opts LibraryOpts) (*Library, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	l := &Library{
		store:     catalog.NewStore(catalog.StoreOpts{Locale: opts.Locale}),
		storage:   opts.Storage,
		exportLog: opts.ExportLog,
		exporter:  tasks.NewExporter(),
		logger:    opts.Logger,
	}
	if opts.Title != "" {
		l.exporter.Title = opts.Title
	}

	if l.storage == nil {
		return l, nil
	}

	data, found, err := l.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	if !found {
		l.logger.Debug("no saved library found, starting empty")
		return l, nil
	}

	tracks, err := formatter.DecodeSnapshot(data)
	if err != nil {
		l.logger.Warn("saved library is unreadable, starting empty", "error", err)
		return l, nil
	}

	if dropped := l.store.Replace(tracks); dropped > 0 {
		l.logger.Warn("dropped invalid or duplicate tracks from saved library", "count", dropped)
	}
	l.logger.Debug("loaded library", "tracks", l.store.Len())
	return l, nil
}

// Len returns the number of tracks.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Len()
}

// Tracks returns every track in insertion order.
func (l *Library) Tracks() []models.Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.List()
}

// Sorted returns every track ordered by key.
func (l *Library) Sorted(key catalog.SortKey) []models.Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Sorted(key)
}

// YearRange returns tracks released between from and to inclusive, ordered by key.
func (l *Library) YearRange(from, to int, key catalog.SortKey) []models.Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	return catalog.SortTracks(l.store.YearRange(from, to), key, l.store.Collator())
}

// RatingRange returns tracks rated between lo and hi inclusive, ordered by key.
func (l *Library) RatingRange(lo, hi float64, key catalog.SortKey) []models.Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	return catalog.SortTracks(l.store.RatingRange(lo, hi), key, l.store.Collator())
}

// Values returns the distinct non-empty values of field ("artist", "album" or "genre") in first-seen order.
func (l *Library) Values(field string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var values []string
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(field)), "s") {
	case "artist":
		values = l.store.Artists()
	case "album":
		values = l.store.Albums()
	case "genre":
		values = l.store.Genres()
	default:
		return nil, fmt.Errorf("%w: unknown field %q", shared.ErrInvalidArgument, field)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// Get returns the track with the given key or [shared.ErrNotFound].
func (l *Library) Get(title, artist string) (models.Track, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.store.Get(title, artist)
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %s", shared.ErrNotFound, models.Key{Title: title, Artist: artist})
	}
	return t, nil
}

// Add validates c, appends it and saves.
func (l *Library) Add(ctx context.Context, c models.Candidate) (models.Track, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Add(c)
	if err != nil {
		return models.Track{}, err
	}
	l.logger.Debug("added track", "title", t.Title, "artist", t.Artist)
	return t, l.save(ctx)
}

// BulkAdd appends every valid, new candidate and saves once. It returns the tracks added.
func (l *Library) BulkAdd(ctx context.Context, cs []models.Candidate) ([]models.Track, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := l.store.BulkAdd(cs)
	l.logger.Debug("bulk add", "added", len(added), "skipped", len(cs)-len(added))
	if len(added) == 0 {
		return added, nil
	}
	return added, l.save(ctx)
}

// Update replaces the track identified by (title, artist) with c and saves.
func (l *Library) Update(ctx context.Context, title, artist string, c models.Candidate) (models.Track, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Update(title, artist, c)
	if err != nil {
		return models.Track{}, err
	}
	l.logger.Debug("updated track", "title", t.Title, "artist", t.Artist)
	return t, l.save(ctx)
}

// Remove deletes the track with the given key and saves. A missing track is [shared.ErrNotFound].
func (l *Library) Remove(ctx context.Context, title, artist string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.store.Remove(title, artist) {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, models.Key{Title: title, Artist: artist})
	}
	l.logger.Debug("removed track", "title", title, "artist", artist)
	return l.save(ctx)
}

// RemoveByTitle deletes every track with the given title and returns how many were removed.
func (l *Library) RemoveByTitle(ctx context.Context, title string) (int, error) {
	return l.removeMany(ctx, func() int { return l.store.RemoveByTitle(title) })
}

// RemoveByArtist deletes every track by the given artist and returns how many were removed.
func (l *Library) RemoveByArtist(ctx context.Context, artist string) (int, error) {
	return l.removeMany(ctx, func() int { return l.store.RemoveByArtist(artist) })
}

// Clear removes every track and saves.
func (l *Library) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.Clear()
	l.logger.Debug("cleared library")
	return l.save(ctx)
}

// LoadSample fills the library with [SampleTracks]. With replace set the current contents are discarded
// first; otherwise samples already present are skipped. It returns the number of tracks added.
func (l *Library) LoadSample(ctx context.Context, replace bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	samples := SampleTracks()
	var added int
	if replace {
		added = len(samples) - l.store.Replace(samples)
	} else {
		cs := make([]models.Candidate, len(samples))
		for i, t := range samples {
			cs[i] = t.Candidate()
		}
		added = len(l.store.BulkAdd(cs))
	}
	l.logger.Info("loaded sample data", "added", added, "replace", replace)
	return added, l.save(ctx)
}

// Import decodes a .csv or .json file and merges it, saving when anything was added.
func (l *Library) Import(ctx context.Context, name string, content []byte, progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	imp := tasks.NewImporter(l.store, tasks.ImporterOpts{Progress: progress, Persist: l.save})
	res, err := imp.ImportFile(ctx, name, content)
	if res != nil {
		l.logger.Info("imported tracks", "file", name, "format", res.Format, "added", res.Added, "skipped", res.Skipped)
	}
	return res, err
}

// Search matches query against the catalog. See [search.Search].
func (l *Library) Search(query string, opts search.Options) ([]models.Track, error) {
	return search.Search(l.Tracks(), query, opts)
}

// Suggest returns field values that fuzzy-match prefix. See [search.Suggest].
func (l *Library) Suggest(prefix string, limit int) []string {
	return search.Suggest(l.Tracks(), prefix, limit)
}

// Stats summarizes the catalog.
func (l *Library) Stats() stats.Report {
	return stats.Compute(l.Tracks())
}

// Playlist resolves an M3U playlist against the catalog.
func (l *Library) Playlist(content string) tasks.PlaylistMatch {
	return tasks.ResolvePlaylist(l.Tracks(), content)
}

// Export renders tracks for scope in format f. The library scope always covers the whole catalog
// and ignores tracks; the other scopes render exactly the tracks given.
func (l *Library) Export(f tasks.Format, s tasks.Scope, tracks []models.Track) (*tasks.Payload, error) {
	if s == tasks.ScopeLibrary {
		tracks = l.Tracks()
	}
	return l.exporter.Export(tracks, f, s)
}

// Deliver hands p to sink, recording it in the export log when one is configured.
func (l *Library) Deliver(ctx context.Context, sink tasks.Sink, p *tasks.Payload) error {
	if err := l.sink(sink).Deliver(ctx, p); err != nil {
		return err
	}
	l.logger.Info("exported tracks", "file", p.Filename, "tracks", p.Count, "bytes", len(p.Body))
	return nil
}

// BulkExport writes the whole catalog in every format into opts.OutputDir.
func (l *Library) BulkExport(ctx context.Context, progress chan<- tasks.ProgressUpdate, formats []tasks.Format, opts tasks.BulkExportOpts) (*tasks.BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("audiolib_export_%d", time.Now().Unix())
	}
	if opts.Sink == nil {
		opts.Sink = tasks.FileSink{Dir: opts.OutputDir}
	}
	opts.Sink = l.sink(opts.Sink)
	return l.exporter.BulkExport(ctx, progress, l.Tracks(), formats, opts)
}

func (l *Library) sink(s tasks.Sink) tasks.Sink {
	if l.exportLog == nil {
		return s
	}
	return tasks.LoggedSink{Next: s, Log: l.exportLog}
}

func (l *Library) removeMany(ctx context.Context, remove func() int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := remove()
	if n == 0 {
		return 0, nil
	}
	l.logger.Debug("removed tracks", "count", n)
	return n, l.save(ctx)
}

// save persists the store. Callers hold l.mu.
func (l *Library) save(ctx context.Context) error {
	if l.storage == nil {
		return nil
	}

	data, err := formatter.EncodeSnapshot(l.store.List())
	if err != nil {
		return err
	}
	if err := l.storage.Save(ctx, data); err != nil {
		l.logger.Warn("failed to save library", "error", err)
		if errors.Is(err, shared.ErrIO) {
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	return nil
}
