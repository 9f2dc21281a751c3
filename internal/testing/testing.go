// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/plsync/internal/models"
)

// MockAPI is a configurable test double for [services.PlaylistAPI]. Zero
// value behaves like an empty channel; populate Items to serve playlists.
type MockAPI struct {
	Items map[string][]models.Video

	GetErr    error
	ListErr   error
	InsertErr error

	InsertCalls []string // "playlistID:videoID" in call order
}

func (m *MockAPI) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return &models.Playlist{ID: playlistID, ItemCount: len(m.Items[playlistID])}, nil
}

func (m *MockAPI) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var playlists []models.Playlist
	for id, items := range m.Items {
		playlists = append(playlists, models.Playlist{ID: id, ItemCount: len(items)})
	}
	return playlists, nil
}

func (m *MockAPI) ListItems(ctx context.Context, playlistID string) ([]models.Video, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Video(nil), m.Items[playlistID]...), nil
}

func (m *MockAPI) InsertItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	m.InsertCalls = append(m.InsertCalls, playlistID+":"+videoID)
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	video := models.Video{VideoID: videoID, Position: len(m.Items[playlistID])}
	if m.Items == nil {
		m.Items = make(map[string][]models.Video)
	}
	m.Items[playlistID] = append(m.Items[playlistID], video)
	return &video, nil
}

func (m *MockAPI) Name() string { return "mock" }

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

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
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
