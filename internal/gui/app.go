package gui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/photobooth/internal"
	"codeberg.org/snonux/photobooth/internal/feed"
	"codeberg.org/snonux/photobooth/internal/logger"
	"codeberg.org/snonux/photobooth/internal/unsplash"
)

// Source is everything the GUI needs from the image provider.
// *unsplash.Client implements it.
type Source interface {
	LoadPage(ctx context.Context, query string, page int) unsplash.Page
	ThumbnailSource
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	searchEntry   *SearchEntry
	searchSpinner *widget.Activity
	statusLabel   *widget.Label
	gallery       *Gallery
	logViewer     *LogViewer
	logButton     *ttwidget.Button
	refreshButton *ttwidget.Button

	// State management
	ctrl     *feed.Controller
	debounce *feed.Debouncer
	detector *feed.Detector
	thumbs   *ThumbnailLoader
	logs     *LogBuffer

	config *Config
	log    zerolog.Logger
}

// Config holds GUI application configuration
type Config struct {
	Title             string
	InitialQuery      string
	Debounce          time.Duration
	AlwaysShowOverlay bool
	ThumbCacheSize    int
	ThumbWorkers      int
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	return &Config{
		Title:          "PhotoBooth",
		Debounce:       feed.DefaultDebounce,
		ThumbCacheSize: 256,
		ThumbWorkers:   6,
	}
}

// New creates a new GUI application. logs may be nil, in which case the
// log panel starts empty and only shows messages written after startup.
func New(config *Config, source Source, logs *LogBuffer) (*Application, error) {
	if config == nil {
		config = DefaultConfig()
	} else {
		// Fill in missing fields with defaults
		defaults := DefaultConfig()
		if config.Title == "" {
			config.Title = defaults.Title
		}
		if config.Debounce <= 0 {
			config.Debounce = defaults.Debounce
		}
		if config.ThumbCacheSize <= 0 {
			config.ThumbCacheSize = defaults.ThumbCacheSize
		}
		if config.ThumbWorkers <= 0 {
			config.ThumbWorkers = defaults.ThumbWorkers
		}
	}
	if logs == nil {
		logs = NewLogBuffer(500)
	}

	thumbs, err := NewThumbnailLoader(source, config.ThumbCacheSize, config.ThumbWorkers, nil)
	if err != nil {
		return nil, err
	}

	a := &Application{
		app:    app.NewWithID("org.codeberg.snonux.photobooth"),
		config: config,
		thumbs: thumbs,
		logs:   logs,
		log:    logger.New("gui"),
	}

	a.ctrl = feed.NewController(source,
		feed.WithDispatcher(fyne.Do),
		feed.WithOnChange(a.render),
	)
	a.detector = feed.NewDetector(a.ctrl.Advance)
	a.debounce = feed.NewDebouncer(config.Debounce, func(text string) {
		fyne.Do(func() {
			a.ctrl.SetQuery(text)
		})
	})

	a.setupUI()
	return a, nil
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("%s v%s", a.config.Title, internal.Version))
	a.window.Resize(fyne.NewSize(1100, 800))

	a.searchEntry = NewSearchEntry()
	a.searchEntry.SetPlaceHolder("Search for images...")
	a.searchEntry.OnChanged = a.debounce.Trigger
	a.searchEntry.OnSubmitted = func(text string) {
		a.submitSearch(text)
		a.window.Canvas().Unfocus()
	}
	a.searchEntry.SetOnEscape(func() {
		a.searchEntry.SetText("")
		a.debounce.Flush()
	})
	if a.config.InitialQuery != "" {
		a.searchEntry.SetText(a.config.InitialQuery)
		// SetText fired OnChanged; Run starts the session directly
		a.debounce.Stop()
	}

	a.searchSpinner = widget.NewActivity()
	a.searchSpinner.Hide()

	searchIcon := widget.NewIcon(theme.SearchIcon())
	searchBar := container.NewBorder(nil, nil, searchIcon, a.searchSpinner, a.searchEntry)

	a.statusLabel = widget.NewLabel("")
	a.statusLabel.Truncation = fyne.TextTruncateEllipsis

	a.gallery = NewGallery(a.detector, a.thumbs, a.config.AlwaysShowOverlay)

	a.logViewer = NewLogViewer(a.logs)
	a.logViewer.Hide()

	a.logButton = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onToggleLogs)
	a.refreshButton = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onRefresh)

	toolbar := container.NewHBox(layout.NewSpacer(), a.refreshButton, a.logButton)

	header := container.NewVBox(
		container.NewBorder(nil, nil, brandTitle(), toolbar),
		container.NewCenter(subtitle("Explore Beautiful Images")),
		container.NewPadded(searchBar),
		widget.NewSeparator(),
	)

	content := container.NewBorder(
		header,
		container.NewVBox(a.logViewer, a.statusLabel),
		nil, nil,
		a.gallery,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.logButton.SetToolTip("Show or hide log messages (l)")
	a.refreshButton.SetToolTip("Reload the current feed (Ctrl+R)")

	a.window.SetOnClosed(a.shutdown)

	a.setupKeyboardShortcuts()
}

func brandTitle() fyne.CanvasObject {
	photo := canvas.NewText("Photo", theme.Color(theme.ColorNameForeground))
	photo.TextSize = 28
	photo.TextStyle = fyne.TextStyle{Bold: true}

	booth := canvas.NewText("Booth", theme.Color(theme.ColorNamePrimary))
	booth.TextSize = 28
	booth.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewHBox(photo, booth)
}

func subtitle(text string) fyne.CanvasObject {
	t := canvas.NewText(text, theme.Color(theme.ColorNamePlaceHolder))
	t.TextSize = 16
	return t
}

// setupKeyboardShortcuts sets up keyboard shortcuts for the application
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().AddShortcut(
		&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.onRefresh() },
	)

	a.window.Canvas().SetOnTypedRune(func(r rune) {
		// Let the character be typed normally while searching
		if a.window.Canvas().Focused() == a.searchEntry {
			return
		}

		switch r {
		case 'l', 'L':
			a.onToggleLogs()
		case '/':
			a.window.Canvas().Focus(a.searchEntry)
		}
	})
}

// Run starts the first session and shows the window
func (a *Application) Run() {
	if a.config.InitialQuery != "" {
		a.ctrl.SetQuery(a.config.InitialQuery)
	} else {
		a.ctrl.Mount()
	}
	a.window.ShowAndRun()
}

// render brings every widget in line with the controller state.
// It always runs on the UI goroutine.
func (a *Application) render(s feed.Snapshot) {
	if s.Loading() {
		a.searchSpinner.Show()
		a.searchSpinner.Start()
	} else {
		a.searchSpinner.Stop()
		a.searchSpinner.Hide()
	}

	a.statusLabel.SetText(statusText(s))
	a.gallery.Render(s)
}

// submitSearch runs the pending debounced query right away. With nothing
// pending it restarts the session for text, so Enter doubles as retry.
func (a *Application) submitSearch(text string) {
	if !a.debounce.Flush() {
		a.ctrl.Search(text)
	}
}

func (a *Application) onRefresh() {
	a.debounce.Stop()
	query := strings.TrimSpace(a.searchEntry.Text)
	a.log.Debug().Str("query", query).Msg("Refreshing feed")
	a.ctrl.Search(query)
}

func (a *Application) onToggleLogs() {
	if a.logViewer.Visible() {
		a.logViewer.Hide()
	} else {
		a.logViewer.Show()
	}
}

func (a *Application) shutdown() {
	a.debounce.Stop()
	a.detector.Detach()
	a.ctrl.Close()
	a.thumbs.Close()
}

// statusText summarises a snapshot for the status line
func statusText(s feed.Snapshot) string {
	subject := "the latest photos"
	if s.Query != "" {
		subject = fmt.Sprintf("%q", s.Query)
	}

	switch {
	case s.Loading():
		return fmt.Sprintf("Loading %s...", subject)
	case s.Err != nil && len(s.Photos) == 0:
		return fmt.Sprintf("Could not load %s: %v", subject, s.Err)
	case s.Err != nil:
		return fmt.Sprintf("%d photos for %s, stopped loading: %v", len(s.Photos), subject, s.Err)
	case len(s.Photos) == 0:
		return fmt.Sprintf("No photos found for %s", subject)
	case s.InFlight:
		return fmt.Sprintf("%d photos for %s, loading more...", len(s.Photos), subject)
	case !s.HasMore:
		return fmt.Sprintf("%d photos for %s, no more results", len(s.Photos), subject)
	default:
		return fmt.Sprintf("%d photos for %s", len(s.Photos), subject)
	}
}
