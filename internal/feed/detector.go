package feed

import "sync"

// Detector turns intersection events on the anchor (the last grid cell)
// into advance signals. It holds at most one observation at a time; every
// Attach releases the previous one first.
type Detector struct {
	advance func() bool

	mu       sync.Mutex
	anchor   int
	attached bool
}

// NewDetector returns a detector calling advance when the anchor becomes visible
func NewDetector(advance func() bool) *Detector {
	return &Detector{advance: advance, anchor: -1}
}

// Attach moves the observation to anchor. Nothing is observed while a
// fetch is in flight, after the session is exhausted, or without an anchor.
func (d *Detector) Attach(anchor int, inFlight, hasMore bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.attached = false
	d.anchor = -1
	if inFlight || !hasMore || anchor < 0 {
		return
	}
	d.anchor = anchor
	d.attached = true
}

// AttachSnapshot attaches to the last photo of s
func (d *Detector) AttachSnapshot(s Snapshot) {
	d.Attach(len(s.Photos)-1, s.InFlight, s.HasMore)
}

// Detach releases the current observation
func (d *Detector) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = false
	d.anchor = -1
}

// Attached returns the observed anchor index
func (d *Detector) Attached() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.anchor, d.attached
}

// Observe delivers one intersection event. An intersecting event on an
// attached anchor fires advance once and releases the observation; the
// return value is whatever advance returned.
func (d *Detector) Observe(intersecting bool) bool {
	d.mu.Lock()
	if !d.attached || !intersecting {
		d.mu.Unlock()
		return false
	}
	d.attached = false
	d.mu.Unlock()

	return d.advance()
}

// AnchorVisible reports whether the anchor spanning [anchorTop, anchorBottom]
// intersects the viewport [offsetY, offsetY+viewportHeight] grown by margin.
func AnchorVisible(offsetY, viewportHeight, anchorTop, anchorBottom, margin float32) bool {
	if viewportHeight <= 0 || anchorBottom <= anchorTop {
		return false
	}
	return anchorTop < offsetY+viewportHeight+margin && anchorBottom > offsetY-margin
}
