package feed

import (
	"sync"
	"time"
)

// DefaultDebounce is the pause after the last keystroke before a search runs
const DefaultDebounce = 500 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// pendingCall is the one scheduled call a Debouncer may hold
type pendingCall struct {
	token uint64
	text  string
	timer Timer
}

// Debouncer delays a call until input has been quiet for a while.
// Every Trigger supersedes the pending call; a timer that fires after being
// superseded finds a different token and does nothing.
type Debouncer struct {
	delay time.Duration
	fn    func(string)
	clock Clock

	mu      sync.Mutex
	token   uint64
	pending *pendingCall
}

// DebounceOption configures a Debouncer
type DebounceOption func(*Debouncer)

// WithClock replaces the wall clock (used by tests)
func WithClock(c Clock) DebounceOption {
	return func(d *Debouncer) {
		d.clock = c
	}
}

// NewDebouncer returns a debouncer calling fn with the last triggered text.
// A non-positive delay falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func(string), opts ...DebounceOption) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	d := &Debouncer{
		delay: delay,
		fn:    fn,
		clock: realClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger cancels the pending call and schedules a new one for text
func (d *Debouncer) Trigger(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.token++
	token := d.token
	d.pending = &pendingCall{
		token: token,
		text:  text,
		timer: d.clock.AfterFunc(d.delay, func() { d.fire(token) }),
	}
}

// Flush runs the pending call now. It reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	p := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	if p == nil {
		return false
	}
	d.fn(p.text)
	return true
}

// Stop drops the pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire(token uint64) {
	d.mu.Lock()
	p := d.pending
	if p == nil || p.token != token {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.fn(p.text)
}

func (d *Debouncer) cancelLocked() {
	if d.pending != nil {
		d.pending.timer.Stop()
		d.pending = nil
	}
}
