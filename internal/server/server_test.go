package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/audiolib/internal/formatter"
	"github.com/desertthunder/audiolib/internal/services"
	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/stats"
	th "github.com/desertthunder/audiolib/internal/testing"
)

func newTestServer(t *testing.T, cfg shared.ServerConfig) (*httptest.Server, *th.MemoryStorage) {
	t.Helper()

	data, err := formatter.EncodeSnapshot(th.Tracks())
	if err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	storage := th.NewMemoryStorage(string(data))
	logger := shared.NewLogger(io.Discard)

	lib, err := services.Open(context.Background(), services.LibraryOpts{Storage: storage, Logger: logger})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	srv := httptest.NewServer(New(lib, cfg, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, storage
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if got := decode[map[string]string](t, resp); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestTracksEndpoints(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		resp := do(t, http.MethodGet, srv.URL+"/tracks", "")
		doc := decode[formatter.Document](t, resp)
		if len(doc.Tracks) != 4 || doc.Tracks[0].Title != "Bohemian Rhapsody" {
			t.Errorf("tracks = %+v", doc.Tracks)
		}
	})

	t.Run("list sorted", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		resp := do(t, http.MethodGet, srv.URL+"/tracks?sort=title", "")
		doc := decode[formatter.Document](t, resp)
		if doc.Tracks[0].Title != "Billie Jean" {
			t.Errorf("first = %q, want Billie Jean", doc.Tracks[0].Title)
		}
	})

	t.Run("list bad sort", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		if resp := do(t, http.MethodGet, srv.URL+"/tracks?sort=color", ""); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("add", func(t *testing.T) {
		srv, storage := newTestServer(t, shared.ServerConfig{})
		resp := do(t, http.MethodPost, srv.URL+"/tracks", `{"title":"Imagine","artist":"John Lennon","duration":183}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		if !strings.Contains(storage.Data(), "Imagine") {
			t.Error("track not persisted")
		}
	})

	t.Run("add duplicate", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		resp := do(t, http.MethodPost, srv.URL+"/tracks", `{"title":"Hey Jude","artist":"The Beatles","duration":1}`)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("add invalid", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		for _, body := range []string{`{"title":"X"}`, `not json`, ``} {
			if resp := do(t, http.MethodPost, srv.URL+"/tracks", body); resp.StatusCode != http.StatusBadRequest {
				t.Errorf("POST %q status = %d, want 400", body, resp.StatusCode)
			}
		}
	})

	t.Run("update", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		resp := do(t, http.MethodPut, srv.URL+"/tracks?title=Hey+Jude&artist=The+Beatles",
			`{"title":"Hey Jude","artist":"The Beatles","duration":431,"rating":3}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		missing := do(t, http.MethodPut, srv.URL+"/tracks?title=Nope&artist=Nobody", `{"title":"A","artist":"B","duration":1}`)
		if missing.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", missing.StatusCode)
		}

		noKey := do(t, http.MethodPut, srv.URL+"/tracks", `{}`)
		if noKey.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", noKey.StatusCode)
		}
	})

	t.Run("delete", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})

		resp := do(t, http.MethodDelete, srv.URL+"/tracks?title=Hey+Jude&artist=The+Beatles", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		again := do(t, http.MethodDelete, srv.URL+"/tracks?title=Hey+Jude&artist=The+Beatles", "")
		if again.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", again.StatusCode)
		}

		byArtist := do(t, http.MethodDelete, srv.URL+"/tracks?artist=Queen", "")
		if got := decode[map[string]int](t, byArtist); got["removed"] != 1 {
			t.Errorf("removed = %d, want 1", got["removed"])
		}

		none := do(t, http.MethodDelete, srv.URL+"/tracks", "")
		if none.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", none.StatusCode)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		srv, _ := newTestServer(t, shared.ServerConfig{})
		if resp := do(t, http.MethodPatch, srv.URL+"/tracks", ""); resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", resp.StatusCode)
		}
	})
}

func TestSearchEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})

	tests := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{"substring", "?q=jude", http.StatusOK, 1},
		{"fields", "?q=rock&fields=genre", http.StatusOK, 2},
		{"prefix", "?q=b&mode=prefix&fields=title", http.StatusOK, 2},
		{"case sensitive", "?q=queen&case=true", http.StatusOK, 0},
		{"empty query", "?q=", http.StatusBadRequest, 0},
		{"bad pattern", "?q=(&mode=regex", http.StatusBadRequest, 0},
		{"bad mode", "?q=a&mode=sideways", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+"/search"+tt.query, "")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			if doc := decode[formatter.Document](t, resp); len(doc.Tracks) != tt.count {
				t.Errorf("len = %d, want %d", len(doc.Tracks), tt.count)
			}
		})
	}

	t.Run("suggest", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/suggest?q=que&limit=3", "")
		got := decode[map[string][]string](t, resp)
		if len(got["suggestions"]) == 0 || got["suggestions"][0] != "Queen" {
			t.Errorf("suggestions = %q", got["suggestions"])
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})
	r := decode[stats.Report](t, do(t, http.MethodGet, srv.URL+"/stats", ""))
	if r.TotalTracks != 4 || r.TotalDuration != 354+294+431+95 {
		t.Errorf("stats = %+v", r)
	}
}

func TestValuesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})

	t.Run("genres", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/values/genres", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		got := decode[map[string][]string](t, resp)
		if strings.Join(got["genres"], ",") != "Rock,Pop" {
			t.Errorf("genres = %v", got["genres"])
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/values/moods", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestExportEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})

	t.Run("library csv", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/export?format=csv", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "audio_library.csv") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		body, _ := io.ReadAll(resp.Body)
		if !bytes.HasPrefix(body, []byte(formatter.CSVHeader)) {
			t.Errorf("body = %s", body)
		}
	})

	t.Run("search scope", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/export?scope=search&q=jude", "")
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "search_results.csv") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		body, _ := io.ReadAll(resp.Body)
		if lines := strings.Split(string(body), "\n"); len(lines) != 2 {
			t.Errorf("lines = %d, want 2", len(lines))
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		if resp := do(t, http.MethodGet, srv.URL+"/export?format=xml", ""); resp.StatusCode != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d, want 415", resp.StatusCode)
		}
	})
}

func TestImportEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{})

	t.Run("csv", func(t *testing.T) {
		body := formatter.CSVHeader + "\nImagine,John Lennon,183,,,,,\nHey Jude,The Beatles,431,,,,,"
		resp := do(t, http.MethodPost, srv.URL+"/import?filename=more.csv", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		got := decode[map[string]any](t, resp)
		if got["added"] != float64(1) || got["skipped"] != float64(1) {
			t.Errorf("result = %v", got)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if resp := do(t, http.MethodPost, srv.URL+"/import?filename=a.xml", "x"); resp.StatusCode != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d, want 415", resp.StatusCode)
		}
	})

	t.Run("missing filename", func(t *testing.T) {
		if resp := do(t, http.MethodPost, srv.URL+"/import", "x"); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("header only", func(t *testing.T) {
		if resp := do(t, http.MethodPost, srv.URL+"/import?filename=a.csv", formatter.CSVHeader); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, shared.ServerConfig{RateLimit: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, http.MethodGet, srv.URL+"/health", "").StatusCode)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRecover(t *testing.T) {
	router := NewBasicRouter()
	router.Use(Recover(shared.NewLogger(io.Discard)))
	router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRouterRoutes(t *testing.T) {
	router := NewBasicRouter()
	router.Handle(http.MethodGet, "/a", http.NotFoundHandler())
	router.Handler(NewHealthHandler())

	got := router.Routes()
	if len(got) < 2 || got[0] != "GET /a" {
		t.Errorf("routes = %v, want GET /a first", got)
	}
	if !slices.Contains(got, "GET /health") {
		t.Errorf("routes = %v, missing GET /health", got)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := NewBasicRouter()
	router.Use(mw("first"), mw("second"))
	router.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"first", "second", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}
