package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/tasks"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSnapshotRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load before any save", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t), 0)

		data, found, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if found || data != nil {
			t.Errorf("Load() = %q, %v; want nothing", data, found)
		}
	})

	t.Run("Save then Load returns newest", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t), 0)

		for _, payload := range []string{`[]`, `[{"title":"A"}]`, `[{"title":"A"},{"title":"B"}]`} {
			if err := repo.Save(ctx, []byte(payload)); err != nil {
				t.Fatalf("Save(%s) error = %v", payload, err)
			}
		}

		data, found, err := repo.Load(ctx)
		if err != nil || !found {
			t.Fatalf("Load() = %v, %v", found, err)
		}
		if string(data) != `[{"title":"A"},{"title":"B"}]` {
			t.Errorf("Load() = %s", data)
		}
	})

	t.Run("Create assigns id, sequence and count", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t), 0)

		first, err := repo.Create(ctx, []byte(`[{},{},{}]`))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		second, err := repo.Create(ctx, []byte(`not an array`))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if first.ID == "" || first.ID == second.ID {
			t.Errorf("ids = %q, %q", first.ID, second.ID)
		}
		if first.Sequence != 1 || second.Sequence != 2 {
			t.Errorf("sequences = %d, %d; want 1, 2", first.Sequence, second.Sequence)
		}
		if first.TrackCount != 3 || second.TrackCount != 0 {
			t.Errorf("track counts = %d, %d; want 3, 0", first.TrackCount, second.TrackCount)
		}

		latest, err := repo.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if latest.ID != second.ID || string(latest.Payload) != `not an array` {
			t.Errorf("Latest() = %+v", latest)
		}
	})

	t.Run("Latest not found", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t), 0)
		if _, err := repo.Latest(ctx); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Latest() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Save prunes to keep", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db, 2)

		for range 5 {
			if err := repo.Save(ctx, []byte(`[]`)); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
		}

		var count, oldest int
		row := db.QueryRowContext(ctx, "SELECT COUNT(*), MIN(sequence) FROM catalog_snapshots")
		if err := row.Scan(&count, &oldest); err != nil {
			t.Fatalf("failed to count snapshots: %v", err)
		}
		if count != 2 || oldest != 4 {
			t.Errorf("count = %d, oldest = %d; want 2, 4", count, oldest)
		}
	})

	t.Run("Prune rejects zero", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t), 0)
		if _, err := repo.Prune(ctx, 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("Prune(0) error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestExportLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewExportLogRepository(setupTestDB(t))

	payloads := []*tasks.Payload{
		{Filename: "audio_library.csv", ContentType: "text/csv", Body: []byte("abc"), Count: 1},
		{Filename: "search_results.csv", ContentType: "text/csv", Body: []byte("abcdef"), Count: 2},
	}
	for _, p := range payloads {
		if err := repo.RecordExport(ctx, p); err != nil {
			t.Fatalf("RecordExport() error = %v", err)
		}
	}

	records, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}
	if records[0].Filename != "search_results.csv" || records[0].Bytes != 6 || records[0].TrackCount != 2 {
		t.Errorf("newest record = %+v", records[0])
	}

	limited, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(1) returned %d records", len(limited))
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "library.json"))
		data, found, err := store.Load(ctx)
		if err != nil || found || data != nil {
			t.Errorf("Load() = %q, %v, %v", data, found, err)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileStore(filepath.Join(dir, "nested", "library.json"))

		if err := store.Save(ctx, []byte(`[1]`)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Save(ctx, []byte(`[1,2]`)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		data, found, err := store.Load(ctx)
		if err != nil || !found {
			t.Fatalf("Load() = %v, %v", found, err)
		}
		if string(data) != `[1,2]` {
			t.Errorf("Load() = %s", data)
		}

		entries, err := os.ReadDir(filepath.Join(dir, "nested"))
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("temp files left behind: %v", entries)
		}
	})

	t.Run("unreadable path", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileStore(dir)
		if _, _, err := store.Load(ctx); !errors.Is(err, shared.ErrIO) {
			t.Errorf("Load(dir) error = %v, want ErrIO", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, cancel := context.WithCancel(ctx)
		cancel()
		store := NewFileStore(filepath.Join(t.TempDir(), "library.json"))
		if err := store.Save(c, []byte(`[]`)); !errors.Is(err, context.Canceled) {
			t.Errorf("Save() error = %v, want context.Canceled", err)
		}
	})
}

var (
	_ Storage         = (*SnapshotRepository)(nil)
	_ Storage         = (*FileStore)(nil)
	_ tasks.ExportLog = (*ExportLogRepository)(nil)
)
