package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/photobooth/internal/logger"
	"codeberg.org/snonux/photobooth/internal/unsplash"
)

// Loader loads one page. Failures come back as an empty page with Err set.
// *unsplash.Client implements it.
type Loader interface {
	LoadPage(ctx context.Context, query string, page int) unsplash.Page
}

// State of the current query session
type State int

const (
	StateIdle State = iota
	StateFetching
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFetching:
		return "Fetching"
	case StateExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// Snapshot is a copy of the controller state at one point in time
type Snapshot struct {
	Session  uint64
	Query    string
	Page     int // last page applied, 0 before the first result
	HasMore  bool
	InFlight bool
	State    State
	Photos   []unsplash.Photo
	Err      error // why the session stopped loading, if it failed
}

// Loading reports whether the first page of the session is still loading
func (s Snapshot) Loading() bool {
	return s.InFlight && s.Page == 0
}

// Controller owns the query session: the search text, the page counter,
// the has-more and in-flight flags and the accumulated photos.
//
// Search, SetQuery, Mount and Advance are meant to be called from the UI
// goroutine. Results are handed back through the dispatcher, so with
// fyne.Do every mutation happens on the UI goroutine as well.
type Controller struct {
	loader   Loader
	dispatch func(func())
	onChange func(Snapshot)
	log      zerolog.Logger

	mu       sync.Mutex
	mounted  bool
	session  uint64
	query    string
	page     int
	hasMore  bool
	inFlight bool
	photos   []unsplash.Photo
	err      error
	sessCtx  context.Context
	cancel   context.CancelFunc

	ctx     context.Context
	stop    context.CancelFunc
	pending sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithDispatcher sets how results are handed back to the UI goroutine.
// The default runs them directly on the fetching goroutine.
func WithDispatcher(dispatch func(func())) Option {
	return func(c *Controller) {
		c.dispatch = dispatch
	}
}

// WithOnChange registers a callback invoked after every state change
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController creates a controller; nothing is fetched until Mount
func NewController(loader Loader, opts ...Option) *Controller {
	ctx, stop := context.WithCancel(context.Background())
	c := &Controller{
		loader:   loader,
		dispatch: func(f func()) { f() },
		log:      logger.New("feed"),
		hasMore:  true,
		ctx:      ctx,
		stop:     stop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount starts the initial session on the default feed.
// Calling it again is a no-op.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.Search("")
}

// Search starts a new session for text, even if text equals the current
// query. The result set is cleared and page 1 is requested. Responses still
// outstanding for older sessions are dropped when they arrive.
func (c *Controller) Search(text string) {
	query := strings.TrimSpace(text)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)

	c.mounted = true
	c.session++
	c.query = query
	c.page = 0
	c.hasMore = true
	c.inFlight = true
	c.photos = nil
	c.err = nil
	c.sessCtx = ctx
	c.cancel = cancel

	session := c.session
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug().Uint64("session", session).Str("query", query).Msg("New session")
	c.notify(snap)
	c.fetch(ctx, session, query, 1)
}

// SetQuery starts a new session only if the trimmed text differs from the
// current query. It reports whether a session was started.
func (c *Controller) SetQuery(text string) bool {
	c.mu.Lock()
	same := c.mounted && strings.TrimSpace(text) == c.query
	c.mu.Unlock()

	if same {
		return false
	}
	c.Search(text)
	return true
}

// Advance requests the next page of the current session. It does nothing
// and returns false while a fetch is in flight, after the session is
// exhausted, or before Mount.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	if !c.mounted || c.inFlight || !c.hasMore {
		c.mu.Unlock()
		return false
	}

	c.inFlight = true
	session := c.session
	query := c.query
	next := c.page + 1
	ctx := c.sessCtx
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	c.fetch(ctx, session, query, next)
	return true
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels outstanding requests and waits for their goroutines
func (c *Controller) Close() {
	c.stop()
	c.pending.Wait()
}

func (c *Controller) fetch(ctx context.Context, session uint64, query string, page int) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		result := c.loader.LoadPage(ctx, query, page)
		c.dispatch(func() {
			c.apply(session, page, result)
		})
	}()
}

// apply merges a page into the session it was requested for
func (c *Controller) apply(session uint64, page int, result unsplash.Page) {
	c.mu.Lock()
	if session != c.session {
		current := c.session
		c.mu.Unlock()
		c.log.Debug().
			Uint64("session", session).
			Uint64("current", current).
			Int("page", page).
			Msg("Discarding response from superseded session")
		return
	}

	c.inFlight = false
	if len(result.Photos) == 0 {
		c.hasMore = false
		c.err = result.Err
	} else {
		c.photos = append(c.photos, result.Photos...)
		c.page = page
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if snap.State == StateExhausted {
		c.log.Info().
			Str("query", snap.Query).
			Int("photos", len(snap.Photos)).
			Bool("failed", snap.Err != nil).
			Msg("No more results")
	}
	c.notify(snap)
}

func (c *Controller) snapshotLocked() Snapshot {
	state := StateIdle
	switch {
	case c.inFlight:
		state = StateFetching
	case !c.hasMore:
		state = StateExhausted
	}

	photos := make([]unsplash.Photo, len(c.photos))
	copy(photos, c.photos)

	return Snapshot{
		Session:  c.session,
		Query:    c.query,
		Page:     c.page,
		HasMore:  c.hasMore,
		InFlight: c.inFlight,
		State:    state,
		Photos:   photos,
		Err:      c.err,
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
