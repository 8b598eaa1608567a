package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// SearchEntry is a single-line entry that reports the Escape key
type SearchEntry struct {
	widget.Entry
	onEscape func()
}

// NewSearchEntry creates a new search entry
func NewSearchEntry() *SearchEntry {
	entry := &SearchEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *SearchEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *SearchEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
