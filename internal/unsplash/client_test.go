package unsplash

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const listingBody = `[
  {
    "id": "abc",
    "alt_description": "a red fox",
    "likes": 42,
    "urls": {"small": "https://images.example/abc-small", "thumb": "https://images.example/abc-thumb"},
    "user": {"name": "Ana", "username": "ana", "profile_image": {"medium": "https://images.example/ana-medium"}}
  },
  {
    "id": "def",
    "alt_description": null,
    "likes": -3,
    "urls": {"thumb": "https://images.example/def-thumb"},
    "user": {"name": "", "username": "bo", "profile_image": {"medium": "https://images.example/bo-medium"}}
  }
]`

const searchBody = `{
  "total": 1,
  "total_pages": 1,
  "results": [
    {
      "id": "cat1",
      "alt_description": "cat on a sofa",
      "likes": 7,
      "urls": {"small": "https://images.example/cat1-small"},
      "user": {"name": "Cem", "profile_image": {"medium": "https://images.example/cem-medium"}}
    }
  ]
}`

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithBaseURL(srv.URL), WithLogger(zerolog.Nop())}, opts...)
	c, err := NewClient("test-key", opts...)
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return c
}

func TestNewClient_MissingKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		if _, err := NewClient(key); !errors.Is(err, ErrMissingAccessKey) {
			t.Errorf("NewClient(%q) error = %v, want ErrMissingAccessKey", key, err)
		}
	}
}

func TestWithPerPage(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultPerPage},
		{-1, DefaultPerPage},
		{12, 12},
		{100, MaxPerPage},
	}

	for _, tt := range tests {
		c, err := NewClient("k", WithPerPage(tt.in))
		if err != nil {
			t.Fatalf("NewClient() failed: %v", err)
		}
		if c.PerPage() != tt.want {
			t.Errorf("WithPerPage(%d): got %d, want %d", tt.in, c.PerPage(), tt.want)
		}
	}
}

func TestFetchPage_Listing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photos" {
			t.Errorf("Expected path /photos, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("Expected page=2, got %s", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "9" {
			t.Errorf("Expected per_page=9, got %s", got)
		}
		if r.URL.Query().Has("query") {
			t.Error("Listing request must not carry a query parameter")
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID test-key" {
			t.Errorf("Unexpected Authorization header %q", got)
		}
		if got := r.Header.Get("Accept-Version"); got != "v1" {
			t.Errorf("Unexpected Accept-Version header %q", got)
		}
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	photos, err := c.FetchPage(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("FetchPage() failed: %v", err)
	}

	if len(photos) != 2 {
		t.Fatalf("Expected 2 photos, got %d", len(photos))
	}

	want := Photo{
		ID:              "abc",
		ThumbnailURL:    "https://images.example/abc-small",
		AltText:         "a red fox",
		Likes:           42,
		AuthorName:      "Ana",
		AuthorAvatarURL: "https://images.example/ana-medium",
	}
	if photos[0] != want {
		t.Errorf("photos[0] = %+v, want %+v", photos[0], want)
	}

	// Fallbacks: thumb URL, username, clamped likes, default alt
	second := photos[1]
	if second.ThumbnailURL != "https://images.example/def-thumb" {
		t.Errorf("Expected thumb fallback, got %q", second.ThumbnailURL)
	}
	if second.AuthorName != "bo" {
		t.Errorf("Expected username fallback 'bo', got %q", second.AuthorName)
	}
	if second.Likes != 0 {
		t.Errorf("Expected likes clamped to 0, got %d", second.Likes)
	}
	if second.Alt() != DefaultAltText {
		t.Errorf("Expected default alt text, got %q", second.Alt())
	}
}

func TestFetchPage_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			t.Errorf("Expected path /search/photos, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "red cats & dogs" {
			t.Errorf("Expected decoded query 'red cats & dogs', got %q", got)
		}
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	photos, err := c.FetchPage(context.Background(), "  red cats & dogs ", 1)
	if err != nil {
		t.Fatalf("FetchPage() failed: %v", err)
	}

	if len(photos) != 1 || photos[0].ID != "cat1" {
		t.Fatalf("Unexpected photos: %+v", photos)
	}
	if photos[0].AuthorAvatarURL != "https://images.example/cem-medium" {
		t.Errorf("Unexpected avatar %q", photos[0].AuthorAvatarURL)
	}
}

func TestFetchPage_EmptyResults(t *testing.T) {
	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"listing", "", `[]`},
		{"search", "nothing", `{"total":0,"total_pages":0,"results":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			photos, err := newTestClient(t, srv).FetchPage(context.Background(), tt.query, 3)
			if err != nil {
				t.Fatalf("FetchPage() failed: %v", err)
			}
			if len(photos) != 0 {
				t.Errorf("Expected no photos, got %d", len(photos))
			}
		})
	}
}

func TestFetchPage_InvalidPage(t *testing.T) {
	c, _ := NewClient("k")
	if _, err := c.FetchPage(context.Background(), "", 0); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("Expected ErrInvalidPage, got %v", err)
	}
}

func TestFetchPage_ProviderErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		query      string
		wantStatus int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"errors":["OAuth error"]}`, "", http.StatusUnauthorized},
		{"rate limited", http.StatusForbidden, `Rate Limit Exceeded`, "cats", http.StatusForbidden},
		{"server error", http.StatusInternalServerError, ``, "", http.StatusInternalServerError},
		{"malformed listing", http.StatusOK, `{"not":"an array"}`, "", http.StatusOK},
		{"malformed search", http.StatusOK, `[1,2`, "cats", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).FetchPage(context.Background(), tt.query, 1)

			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected ProviderError, got %T: %v", err, err)
			}
			if pe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", pe.StatusCode, tt.wantStatus)
			}
			if Kind(err) != "provider" {
				t.Errorf("Kind() = %s, want provider", Kind(err))
			}
		})
	}
}

func TestFetchPage_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv)
	srv.Close()

	_, err := c.FetchPage(context.Background(), "", 1)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %T: %v", err, err)
	}
	if Kind(err) != "transport" {
		t.Errorf("Kind() = %s, want transport", Kind(err))
	}
}

func TestFetchPage_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	for i := 0; i < 5; i++ {
		if _, err := c.FetchPage(context.Background(), "", 1); err == nil {
			t.Fatal("Expected error from failing server")
		}
	}

	_, err := c.FetchPage(context.Background(), "", 1)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Expected open breaker, got %v", err)
	}
	if Kind(err) != "transport" {
		t.Errorf("Kind() = %s, want transport", Kind(err))
	}
	if hits.Load() != 5 {
		t.Errorf("Expected 5 requests to reach the server, got %d", hits.Load())
	}
}

func TestLoadPage_FailSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	page := newTestClient(t, srv).LoadPage(context.Background(), "cats", 4)

	if page.Err == nil {
		t.Fatal("Expected Err to be set")
	}
	if len(page.Photos) != 0 {
		t.Errorf("Expected empty page, got %d photos", len(page.Photos))
	}
	if page.Query != "cats" || page.Number != 4 {
		t.Errorf("Unexpected page tag %q/%d", page.Query, page.Number)
	}
}

func TestLoadPage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	page := newTestClient(t, srv).LoadPage(context.Background(), "", 1)
	if page.Err != nil {
		t.Fatalf("Unexpected error: %v", page.Err)
	}
	if len(page.Photos) != 2 {
		t.Errorf("Expected 2 photos, got %d", len(page.Photos))
	}
}

func TestThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	data, err := c.Thumbnail(context.Background(), srv.URL+"/thumb.jpg")
	if err != nil {
		t.Fatalf("Thumbnail() failed: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("Unexpected thumbnail data %q", data)
	}

	if _, err := c.Thumbnail(context.Background(), srv.URL+"/missing"); Kind(err) != "provider" {
		t.Errorf("Expected provider error for 404, got %v", err)
	}
}

func TestThumbnail_NoCredentials(t *testing.T) {
	var auth, version string
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		version = r.Header.Get("Accept-Version")
		w.Write([]byte("png-bytes"))
	}))
	defer cdn.Close()

	c, err := NewClient("secret-key", WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	if _, err := c.Thumbnail(context.Background(), cdn.URL+"/img.png"); err != nil {
		t.Fatalf("Thumbnail() failed: %v", err)
	}
	if auth != "" {
		t.Errorf("Expected no Authorization header on image requests, got %q", auth)
	}
	if version != "" {
		t.Errorf("Expected no Accept-Version header on image requests, got %q", version)
	}
}

func TestLoadPage_TrimsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	page := c.LoadPage(context.Background(), "  cats  ", 1)

	if page.Query != "cats" {
		t.Errorf("Expected page query %q, got %q", "cats", page.Query)
	}
	if gotQuery != "cats" {
		t.Errorf("Expected request query %q, got %q", "cats", gotQuery)
	}
}

func TestRedact(t *testing.T) {
	got := redact("https://api.unsplash.com/photos?client_id=secret&page=1")
	if got != "https://api.unsplash.com/photos" {
		t.Errorf("redact() = %q", got)
	}
}
