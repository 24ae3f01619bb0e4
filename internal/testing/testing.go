// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/apx/internal/models"
)

// StubCatalog is a configurable test double for the remote catalog service.
//
// Every search query is recorded in order, so tests can assert exactly which
// fallback levels the resolver issued.
type StubCatalog struct {
	User      models.User
	Pages     []models.PlaylistPage
	SearchFn  func(query string, limit int) ([]models.CatalogTrack, error)
	UserErr   error
	CreateErr error
	AppendErr error

	Queries []string             // recorded search queries, in order
	Created []models.Playlist    // playlists created through the stub
	Appends map[string][][]string // playlist ID → appended batches, in order
}

func (s *StubCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (s *StubCatalog) Name() string { return "stub" }

func (s *StubCatalog) CurrentUser(ctx context.Context) (*models.User, error) {
	if s.UserErr != nil {
		return nil, s.UserErr
	}
	user := s.User
	if user.ID == "" {
		user.ID = "stub-user"
	}
	return &user, nil
}

func (s *StubCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.CatalogTrack, error) {
	s.Queries = append(s.Queries, query)
	if s.SearchFn == nil {
		return nil, nil
	}
	return s.SearchFn(query, limit)
}

// UserPlaylists serves the configured pages by offset; offsets past the
// configured pages return an empty final page.
func (s *StubCatalog) UserPlaylists(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
	for _, page := range s.Pages {
		if page.Offset == offset {
			found := page
			return &found, nil
		}
	}
	return &models.PlaylistPage{Limit: limit, Offset: offset, HasMore: false}, nil
}

func (s *StubCatalog) CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*models.Playlist, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	pl := models.Playlist{
		ID:          "created-playlist",
		Name:        name,
		Description: description,
		OwnerID:     userID,
		Public:      public,
	}
	s.Created = append(s.Created, pl)
	return &pl, nil
}

func (s *StubCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}

	if s.Appends == nil {
		s.Appends = make(map[string][][]string)
	}
	batch := make([]string, len(trackIDs))
	copy(batch, trackIDs)
	s.Appends[playlistID] = append(s.Appends[playlistID], batch)
	return nil
}

// MemoryCache is an in-memory tasks.MatchCacher double.
type MemoryCache struct {
	Entries  map[string]string
	Stored   []string
	StoreErr error
}

func cacheKey(track models.Track) string {
	return track.Title + "\x00" + track.Artist + "\x00" + track.Album
}

func (c *MemoryCache) Lookup(track models.Track) (string, bool) {
	id, ok := c.Entries[cacheKey(track)]
	return id, ok
}

func (c *MemoryCache) Store(track models.Track, trackID string, level int) error {
	if c.StoreErr != nil {
		return c.StoreErr
	}
	if c.Entries == nil {
		c.Entries = make(map[string]string)
	}
	c.Entries[cacheKey(track)] = trackID
	c.Stored = append(c.Stored, trackID)
	return nil
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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
