// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/audiolib/internal/models"
)

// MemoryStorage is an in-memory test double for repositories.Storage
type MemoryStorage struct {
	mu      sync.Mutex
	data    []byte
	found   bool
	saves   int
	LoadErr error // Returned by every Load when set
	SaveErr error // Returned by every Save when set
}

// NewMemoryStorage returns storage that already holds data.
func NewMemoryStorage(data string) *MemoryStorage {
	return &MemoryStorage{data: []byte(data), found: true}
}

func (m *MemoryStorage) Load(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	return m.data, m.found, nil
}

func (m *MemoryStorage) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.found = true
	m.saves++
	return nil
}

// Data returns the last saved snapshot
func (m *MemoryStorage) Data() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data)
}

// Saves returns how many saves succeeded
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Tracks returns a small catalog covering every field, including an unrated and unplayed track
func Tracks() []models.Track {
	return []models.Track{
		{Title: "Bohemian Rhapsody", Artist: "Queen", Duration: 354, Album: "A Night at the Opera", Genre: "Rock", Year: 1975, Rating: 5, PlayCount: 150},
		{Title: "Billie Jean", Artist: "Michael Jackson", Duration: 294, Album: "Thriller", Genre: "Pop", Year: 1982, Rating: 4.5, PlayCount: 89},
		{Title: "Hey Jude", Artist: "The Beatles", Duration: 431, Album: "Hey Jude", Genre: "Rock", Year: 1968, Rating: 5, PlayCount: 134},
		{Title: "Untitled Demo", Artist: "Nobody", Duration: 95},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to name inside dir and returns the full path
func MustWriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
