// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/services"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// MockAcquisition is a test double for [services.Acquisition]. Configure
// the fields per test; zero values yield empty successful responses.
type MockAcquisition struct {
	SearchResults []models.Track
	SearchErr     error
	SearchCalls   int

	Playlist    *models.PlaylistImport
	PlaylistErr error
	ImportCalls int
}

func (m *MockAcquisition) Search(ctx context.Context, query string) ([]models.Track, error) {
	m.SearchCalls++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults, nil
}

func (m *MockAcquisition) ImportPlaylist(ctx context.Context, playlistURL string) (*models.PlaylistImport, error) {
	m.ImportCalls++
	if m.PlaylistErr != nil {
		return nil, m.PlaylistErr
	}
	if m.Playlist == nil {
		return &models.PlaylistImport{}, nil
	}
	return m.Playlist, nil
}

func (m *MockAcquisition) Name() string { return "mock" }

// MemoryStorage is an in-memory playlists.Storage. FailSaves makes every
// Save fail, for persistence-failure paths.
type MemoryStorage struct {
	Data      []byte
	Saves     int
	FailSaves bool
}

func (s *MemoryStorage) Load() ([]byte, error) {
	if s.Data == nil {
		return nil, shared.ErrNoDocument
	}
	return s.Data, nil
}

func (s *MemoryStorage) Save(data []byte) error {
	if s.FailSaves {
		return errors.New("save failed")
	}
	s.Saves++
	s.Data = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) Close() error { return nil }

// MockWidget is a scriptable test double for [services.Widget]. Position
// and duration are plain fields the test advances by hand.
type MockWidget struct {
	Loaded    []models.Track
	Playing   bool
	Pos       float64
	Dur       float64
	Volume    float64
	Current   services.WidgetState
	LoadErr   error
	LoadCalls int
	SeekCalls []float64
}

func (w *MockWidget) Load(track models.Track) error {
	w.LoadCalls++
	if w.LoadErr != nil {
		return w.LoadErr
	}
	w.Loaded = append(w.Loaded, track)
	w.Playing = true
	w.Pos = 0
	w.Current = services.WidgetPlaying
	return nil
}

func (w *MockWidget) Play() error {
	w.Playing = true
	w.Current = services.WidgetPlaying
	return nil
}

func (w *MockWidget) Pause() error {
	w.Playing = false
	w.Current = services.WidgetPaused
	return nil
}

func (w *MockWidget) Seek(seconds float64) error {
	w.Pos = seconds
	w.SeekCalls = append(w.SeekCalls, seconds)
	return nil
}

func (w *MockWidget) SetVolume(level float64) error {
	w.Volume = level
	return nil
}

func (w *MockWidget) Position() (float64, error) { return w.Pos, nil }
func (w *MockWidget) Duration() (float64, error) { return w.Dur, nil }

func (w *MockWidget) State() services.WidgetState { return w.Current }

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

// SampleTracks builds n distinct tracks with all required fields set.
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		id := fmt.Sprintf("track%d", i+1)
		tracks[i] = models.Track{
			ID:           id,
			Title:        fmt.Sprintf("Song %d", i+1),
			Artist:       "Artist",
			Duration:     "3:00",
			Thumbnail:    "https://img.example/" + id + ".jpg",
			VideoID:      "v_" + id,
			ChannelTitle: "Channel",
		}
	}
	return tracks
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
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
