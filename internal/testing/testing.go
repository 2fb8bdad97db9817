// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// MockProvider is a call-counting test double for catalog.Provider.
//
// Records are keyed by the raw name passed to the search call. A nil map
// means every lookup misses.
type MockProvider struct {
	Artists map[string]models.Artist
	Albums  map[string]models.Album
	Tracks  map[string]models.Track

	// Err, when set, is returned from every search call.
	Err error

	ArtistCalls int
	AlbumCalls  int
	TrackCalls  int
}

func (m *MockProvider) SearchArtist(ctx context.Context, name string) (*models.Artist, error) {
	m.ArtistCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if record, ok := m.Artists[name]; ok {
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MockProvider) SearchAlbum(ctx context.Context, artistName, albumName string) (*models.Album, error) {
	m.AlbumCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if record, ok := m.Albums[albumName]; ok {
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MockProvider) SearchTrack(ctx context.Context, artistName, albumName, trackName string) (*models.Track, error) {
	m.TrackCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if record, ok := m.Tracks[trackName]; ok {
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MockProvider) Name() string { return "mock" }

// MemoryCache is an in-memory catalog.Cache for resolver tests.
type MemoryCache struct {
	mu      sync.Mutex
	artists map[string]models.Artist
	albums  map[string]models.Album
	tracks  map[string]models.Track

	// GetErr, when set, is returned from every read.
	GetErr error
	// PutErr, when set, is returned from every write.
	PutErr error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		artists: make(map[string]models.Artist),
		albums:  make(map[string]models.Album),
		tracks:  make(map[string]models.Track),
	}
}

func (c *MemoryCache) GetArtist(ctx context.Context, key string) (*models.Artist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	if record, ok := c.artists[key]; ok {
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

func (c *MemoryCache) PutArtist(ctx context.Context, key string, record models.Artist) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PutErr != nil {
		return c.PutErr
	}
	c.artists[key] = record
	return nil
}

func (c *MemoryCache) GetAlbum(ctx context.Context, artistKey, key string) (*models.Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	if record, ok := c.albums[artistKey+"|"+key]; ok {
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

func (c *MemoryCache) PutAlbum(ctx context.Context, artistKey, key string, record models.Album) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PutErr != nil {
		return c.PutErr
	}
	c.albums[artistKey+"|"+key] = record
	return nil
}

func (c *MemoryCache) GetTrack(ctx context.Context, artistKey, albumKey, key string) (*models.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	if record, ok := c.tracks[artistKey+"|"+albumKey+"|"+key]; ok {
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

func (c *MemoryCache) PutTrack(ctx context.Context, artistKey, albumKey, key string, record models.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PutErr != nil {
		return c.PutErr
	}
	c.tracks[artistKey+"|"+albumKey+"|"+key] = record
	return nil
}

// ArtistCount returns the number of cached artist records.
func (c *MemoryCache) ArtistCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.artists)
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

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
