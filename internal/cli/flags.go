package cli

import (
	"time"

	"codeberg.org/snonux/photobooth/internal/feed"
	"codeberg.org/snonux/photobooth/internal/unsplash"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	Debug   bool

	// Provider flags
	AccessKey string
	APIURL    string
	PerPage   int

	// Gallery flags
	Query             string
	Debounce          time.Duration
	AlwaysShowOverlay bool
	ThumbCacheSize    int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		APIURL:         unsplash.DefaultAPIURL,
		PerPage:        unsplash.DefaultPerPage,
		Debounce:       feed.DefaultDebounce,
		ThumbCacheSize: 256,
	}
}
