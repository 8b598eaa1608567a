package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/photobooth/internal/unsplash"
)

// MockSource mocks the image provider for GUI and controller tests.
// Pages are keyed by "query#page"; unknown keys yield an empty page.
type MockSource struct {
	Pages      map[string]unsplash.Page
	Thumbnails map[string][]byte
	Errors     map[string]error

	mu    sync.Mutex
	Calls []string
}

// PageKey builds the key used in Pages
func PageKey(query string, page int) string {
	return fmt.Sprintf("%s#%d", query, page)
}

// LoadPage mocks the fail-soft page load
func (m *MockSource) LoadPage(ctx context.Context, query string, page int) unsplash.Page {
	key := PageKey(query, page)
	m.record("PAGE " + key)

	if p, ok := m.Pages[key]; ok {
		return p
	}
	return unsplash.Page{Query: query, Number: page}
}

// Thumbnail mocks downloading image bytes
func (m *MockSource) Thumbnail(ctx context.Context, url string) ([]byte, error) {
	m.record("GET " + url)

	if err, ok := m.Errors[url]; ok {
		return nil, err
	}
	if data, ok := m.Thumbnails[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no thumbnail for %s", url)
}

// CallCount returns how often call was recorded
func (m *MockSource) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockSource) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}
