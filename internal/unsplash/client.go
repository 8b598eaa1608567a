// Package unsplash is a small client for the Unsplash photo API. It knows
// the two endpoints photobooth needs (the editorial listing and photo search)
// and normalizes both envelopes into the same Photo records.
package unsplash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/photobooth/internal/logger"
)

const (
	// DefaultAPIURL is the public API endpoint
	DefaultAPIURL = "https://api.unsplash.com"

	// DefaultPerPage matches the three-column grid
	DefaultPerPage = 9

	// MaxPerPage is the provider's upper limit
	MaxPerPage = 30

	requestTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
	maxImageBytes    = 10 << 20
)

var jsonAPI = sonic.Config{
	CopyString:     true,
	ValidateString: true,
}.Froze()

// Client fetches pages of photos and thumbnail bytes
type Client struct {
	baseURL    string
	accessKey  string
	perPage    int
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root (used by tests)
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithPerPage sets the page size, clamped to 1..MaxPerPage
func WithPerPage(n int) Option {
	return func(c *Client) {
		switch {
		case n < 1:
			c.perPage = DefaultPerPage
		case n > MaxPerPage:
			c.perPage = MaxPerPage
		default:
			c.perPage = n
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new Unsplash API client
func NewClient(accessKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(accessKey) == "" {
		return nil, ErrMissingAccessKey
	}

	c := &Client{
		baseURL:    DefaultAPIURL,
		accessKey:  accessKey,
		perPage:    DefaultPerPage,
		httpClient: newHTTPClient(),
		log:        logger.New("unsplash"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "unsplash",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return c, nil
}

func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20

	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}
}

// PerPage returns the configured page size
func (c *Client) PerPage() int {
	return c.perPage
}

// FetchPage fetches one page of photos. An empty query lists the editorial
// feed, anything else searches. It performs exactly one request and never
// retries.
func (c *Client) FetchPage(ctx context.Context, query string, page int) ([]Photo, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	query = strings.TrimSpace(query)
	reqURL := c.pageURL(query, page)

	res, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := c.get(ctx, reqURL, maxResponseBytes, true)
		if err != nil {
			return nil, err
		}
		return decodePage(query, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransportError{Op: "GET", URL: redact(reqURL), Err: err}
		}
		return nil, err
	}

	return res.([]Photo), nil
}

// LoadPage is the fail-soft form of FetchPage: failures are logged and
// reported as an empty page with Err set.
func (c *Client) LoadPage(ctx context.Context, query string, page int) Page {
	query = strings.TrimSpace(query)
	reqID := xid.New().String()
	start := time.Now()

	photos, err := c.FetchPage(ctx, query, page)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.log.Debug().
				Str("request_id", reqID).
				Str("query", query).
				Int("page", page).
				Msg("Page request cancelled")
		} else {
			c.log.Warn().
				Err(err).
				Str("request_id", reqID).
				Str("kind", Kind(err)).
				Str("query", query).
				Int("page", page).
				Msg("Fetching page failed, treating as empty")
		}
		return Page{Query: query, Number: page, Photos: []Photo{}, Err: err}
	}

	c.log.Debug().
		Str("request_id", reqID).
		Str("query", query).
		Int("page", page).
		Int("count", len(photos)).
		Dur("took", time.Since(start)).
		Msg("Fetched page")

	return Page{Query: query, Number: page, Photos: photos}
}

// Thumbnail downloads an image (thumbnail or avatar) and returns its bytes.
// Image hosts never see the access key.
func (c *Client) Thumbnail(ctx context.Context, imageURL string) ([]byte, error) {
	return c.get(ctx, imageURL, maxImageBytes, false)
}

// pageURL builds the listing or search URL for the given page
func (c *Client) pageURL(query string, page int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.perPage))

	if query == "" {
		return c.baseURL + "/photos?" + params.Encode()
	}

	params.Set("query", query)
	return c.baseURL + "/search/photos?" + params.Encode()
}

// get performs a GET and returns at most limit bytes of a 2xx body.
// Only API requests carry the credential headers.
func (c *Client) get(ctx context.Context, reqURL string, limit int64, api bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if api {
		req.Header.Set("Authorization", "Client-ID "+c.accessKey)
		req.Header.Set("Accept-Version", "v1")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: redact(reqURL), Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &TransportError{Op: "read", URL: redact(reqURL), Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response exceeds %d bytes", limit),
		}
	}

	return body, nil
}

// decodePage decodes the listing array or the search envelope
func decodePage(query string, body []byte) ([]Photo, error) {
	var raw []apiPhoto
	if query == "" {
		if err := jsonAPI.Unmarshal(body, &raw); err != nil {
			return nil, &ProviderError{StatusCode: http.StatusOK, Message: "malformed listing response", Err: err}
		}
	} else {
		var envelope searchResponse
		if err := jsonAPI.Unmarshal(body, &envelope); err != nil {
			return nil, &ProviderError{StatusCode: http.StatusOK, Message: "malformed search response", Err: err}
		}
		raw = envelope.Results
	}
	return normalize(raw), nil
}

// redact drops the query string so access keys passed as client_id never reach the logs
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
