package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/desertthunder/audiolib/internal/catalog"
	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/search"
	"github.com/desertthunder/audiolib/internal/services"
	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/tasks"
)

// MaxBodyBytes bounds request bodies for adds, updates and imports.
const MaxBodyBytes = 10 << 20

type errorBody struct {
	Error string `json:"error"`
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// API serves the catalog endpoints for one library session.
type API struct {
	lib *services.Library
	mux *http.ServeMux
}

// NewAPI creates the catalog API for lib.
func NewAPI(lib *services.Library) *API {
	a := &API{lib: lib, mux: http.NewServeMux()}
	a.mux.HandleFunc("GET /tracks", a.listTracks)
	a.mux.HandleFunc("POST /tracks", a.addTrack)
	a.mux.HandleFunc("PUT /tracks", a.updateTrack)
	a.mux.HandleFunc("DELETE /tracks", a.deleteTracks)
	a.mux.HandleFunc("GET /search", a.search)
	a.mux.HandleFunc("GET /suggest", a.suggest)
	a.mux.HandleFunc("GET /stats", a.stats)
	a.mux.HandleFunc("GET /values/{field}", a.values)
	a.mux.HandleFunc("GET /export", a.export)
	a.mux.HandleFunc("POST /import", a.importFile)
	return a
}

// Routes returns the HTTP routes this handler serves.
func (a *API) Routes() []string {
	return []string{
		"GET /tracks",
		"POST /tracks",
		"PUT /tracks",
		"DELETE /tracks",
		"GET /search",
		"GET /suggest",
		"GET /stats",
		"GET /values/{field}",
		"GET /export",
		"POST /import",
	}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// listTracks returns the catalog, in insertion order unless ?sort= names a key.
func (a *API) listTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := a.view(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatter.Document{Tracks: tracks})
}

func (a *API) addTrack(w http.ResponseWriter, r *http.Request) {
	c, err := readCandidate(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := a.lib.Add(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// updateTrack replaces the track named by ?title=&artist= with the body.
func (a *API) updateTrack(w http.ResponseWriter, r *http.Request) {
	title, artist, err := keyParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := readCandidate(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := a.lib.Update(r.Context(), title, artist, c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// deleteTracks removes one track by ?title=&artist=, or every match of ?title= or ?artist= alone.
func (a *API) deleteTracks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title, artist := q.Get("title"), q.Get("artist")

	var (
		removed int
		err     error
	)
	switch {
	case title != "" && artist != "":
		err = a.lib.Remove(r.Context(), title, artist)
		removed = 1
	case title != "":
		removed, err = a.lib.RemoveByTitle(r.Context(), title)
	case artist != "":
		removed, err = a.lib.RemoveByArtist(r.Context(), artist)
	default:
		err = fmt.Errorf("%w: title or artist", shared.ErrMissingArgument)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	tracks, err := a.searchResults(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatter.Document{Tracks: tracks})
}

func (a *API) suggest(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, fmt.Errorf("%w: limit %q", shared.ErrInvalidArgument, s))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"suggestions": a.lib.Suggest(r.URL.Query().Get("q"), limit),
	})
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.lib.Stats())
}

// values lists the distinct artists, albums or genres.
func (a *API) values(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	values, err := a.lib.Values(field)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{field: values})
}

// export streams a download. Scope "search" exports the results of the search parameters,
// "view" the listing selected by ?sort=, and "library" the whole catalog.
func (a *API) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := tasks.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	scope, err := tasks.ParseScope(q.Get("scope"))
	if err != nil {
		writeError(w, err)
		return
	}

	var tracks []models.Track
	switch scope {
	case tasks.ScopeSearch:
		tracks, err = a.searchResults(r)
	case tasks.ScopeView:
		tracks, err = a.view(r)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := a.lib.Export(format, scope, tracks)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.lib.Deliver(r.Context(), ResponseSink{W: w}, p); err != nil && !errors.Is(err, shared.ErrIO) {
		writeError(w, err)
	}
}

// importFile merges the request body, dispatching on ?filename= like a file upload.
func (a *API) importFile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("filename")
	if name == "" {
		writeError(w, fmt.Errorf("%w: filename", shared.ErrMissingArgument))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	res, err := a.lib.Import(r.Context(), name, body, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) view(r *http.Request) ([]models.Track, error) {
	s := r.URL.Query().Get("sort")
	if s == "" {
		return a.lib.Tracks(), nil
	}
	key, err := catalog.ParseSortKey(s)
	if err != nil {
		return nil, err
	}
	return a.lib.Sorted(key), nil
}

func (a *API) searchResults(r *http.Request) ([]models.Track, error) {
	q := r.URL.Query()
	mode, err := search.ParseMode(q.Get("mode"))
	if err != nil {
		return nil, err
	}
	fields, err := search.ParseFields(q.Get("fields"))
	if err != nil {
		return nil, err
	}
	caseSensitive, _ := strconv.ParseBool(q.Get("case"))

	return a.lib.Search(q.Get("q"), search.Options{Mode: mode, Fields: fields, CaseSensitive: caseSensitive})
}

// ResponseSink delivers a payload as an HTTP download.
type ResponseSink struct {
	W http.ResponseWriter
}

// Deliver writes p with attachment headers.
func (s ResponseSink) Deliver(ctx context.Context, p *tasks.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h := s.W.Header()
	h.Set("Content-Type", p.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Filename))
	h.Set("Content-Length", strconv.Itoa(len(p.Body)))
	s.W.WriteHeader(http.StatusOK)
	if _, err := s.W.Write(p.Body); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	return nil
}

func keyParams(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	title, artist := q.Get("title"), q.Get("artist")
	if title == "" || artist == "" {
		return "", "", fmt.Errorf("%w: title and artist", shared.ErrMissingArgument)
	}
	return title, artist, nil
}

func readCandidate(w http.ResponseWriter, r *http.Request) (models.Candidate, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return formatter.DecodeRecord(body)
}

// statusFor maps a library error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, shared.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, shared.ErrMissingField),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrEmptyQuery),
		errors.Is(err, shared.ErrInvalidPattern),
		errors.Is(err, shared.ErrEmptyInput),
		errors.Is(err, shared.ErrParse):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
