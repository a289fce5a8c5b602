// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/ytmigrate/internal/models"
)

// MockService is an in-memory test double for [services.Service].
//
// Listings are served in pages of PageSize (default 2) so callers exercise pagination.
// AddErr, when set, is consulted before every add; a non-nil result fails that add without mutating state.
type MockService struct {
	mu sync.Mutex

	Label     string
	PageSize  int
	Playlists []models.Playlist
	Items     map[string][]models.PlaylistItem

	AddErr      func(playlistID, videoID string) error
	ListErr     error
	ItemsErr    map[string]error
	CreateErr   error
	AddCalls    []string
	CreateCalls []string
	nextID      int
}

// NewMockService returns an empty account labelled name.
func NewMockService(name string) *MockService {
	return &MockService{Label: name, Items: map[string][]models.PlaylistItem{}}
}

// WithPlaylist seeds a playlist holding videoIDs in order.
func (m *MockService) WithPlaylist(id, title string, videoIDs ...string) *MockService {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Playlists = append(m.Playlists, models.Playlist{ID: id, Title: title, ItemCount: len(videoIDs)})
	for _, v := range videoIDs {
		m.appendItem(id, v)
	}
	return m
}

func (m *MockService) Name() string { return m.Label }

func (m *MockService) ListPlaylistsPage(ctx context.Context, token string) (models.Page[models.Playlist], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return models.Page[models.Playlist]{}, m.ListErr
	}
	return paginate(m.Playlists, token, m.pageSize())
}

func (m *MockService) ListItemsPage(ctx context.Context, playlistID, token string) (models.Page[models.PlaylistItem], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ItemsErr[playlistID]; err != nil {
		return models.Page[models.PlaylistItem]{}, err
	}
	return paginate(m.Items[playlistID], token, m.pageSize())
}

func (m *MockService) CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, title)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.nextID++
	pl := models.Playlist{
		ID:          fmt.Sprintf("%s-pl-%d", m.Label, m.nextID),
		Title:       title,
		Description: description,
		Privacy:     privacy,
	}
	m.Playlists = append(m.Playlists, pl)
	return &pl, nil
}

func (m *MockService) AddItem(ctx context.Context, playlistID, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls = append(m.AddCalls, videoID)
	if m.AddErr != nil {
		if err := m.AddErr(playlistID, videoID); err != nil {
			return err
		}
	}
	m.appendItem(playlistID, videoID)
	return nil
}

func (m *MockService) DeleteItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pl, items := range m.Items {
		for i, it := range items {
			if it.ID == itemID {
				m.Items[pl] = renumber(append(items[:i:i], items[i+1:]...))
				return nil
			}
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

func (m *MockService) MoveItem(ctx context.Context, itemID string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pl, items := range m.Items {
		for i, it := range items {
			if it.ID != itemID {
				continue
			}
			rest := append(items[:i:i], items[i+1:]...)
			position = min(max(position, 0), len(rest))
			moved := append(rest[:position:position], it)
			m.Items[pl] = renumber(append(moved, rest[position:]...))
			return nil
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

// VideoIDs returns the current video IDs of a playlist in order.
func (m *MockService) VideoIDs(playlistID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.Fingerprints(m.Items[playlistID])
}

func (m *MockService) appendItem(playlistID, videoID string) {
	if m.Items == nil {
		m.Items = map[string][]models.PlaylistItem{}
	}
	m.nextID++
	items := m.Items[playlistID]
	m.Items[playlistID] = append(items, models.PlaylistItem{
		ID:         fmt.Sprintf("%s-it-%d", m.Label, m.nextID),
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   len(items),
	})
	for i := range m.Playlists {
		if m.Playlists[i].ID == playlistID {
			m.Playlists[i].ItemCount = len(m.Items[playlistID])
		}
	}
}

func (m *MockService) pageSize() int {
	if m.PageSize <= 0 {
		return 2
	}
	return m.PageSize
}

// paginate serves items[offset:offset+size] where the token is the decimal offset.
func paginate[T any](items []T, token string, size int) (models.Page[T], error) {
	offset := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 || n > len(items) {
			return models.Page[T]{}, fmt.Errorf("bad page token %q", token)
		}
		offset = n
	}

	end := min(offset+size, len(items))
	page := models.Page[T]{Items: append([]T(nil), items[offset:end]...)}
	if end < len(items) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

func renumber(items []models.PlaylistItem) []models.PlaylistItem {
	for i := range items {
		items[i].Position = i
	}
	return items
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
