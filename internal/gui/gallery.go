package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/photobooth/internal/feed"
)

// CellSize is the size of one grid cell; the grid wraps as many columns
// as fit the window width
var CellSize = fyne.NewSize(320, 256)

// Gallery renders the photos of a session as a scrollable, wrapping grid
// and reports when the last cell scrolls into view
type Gallery struct {
	widget.BaseWidget

	detector   *feed.Detector
	thumbs     *ThumbnailLoader
	alwaysShow bool

	grid    *fyne.Container
	footer  *widget.Activity
	scroll  *container.Scroll
	session uint64
	cards   []*PhotoCard
}

// NewGallery creates an empty gallery. The detector receives an
// intersection event whenever the view scrolls or is resized.
func NewGallery(detector *feed.Detector, thumbs *ThumbnailLoader, alwaysShow bool) *Gallery {
	g := &Gallery{
		detector:   detector,
		thumbs:     thumbs,
		alwaysShow: alwaysShow,
	}

	g.grid = container.NewGridWrap(CellSize)
	g.footer = widget.NewActivity()
	g.footer.Hide()

	g.scroll = container.NewVScroll(container.NewVBox(
		g.grid,
		container.NewCenter(g.footer),
	))
	g.scroll.OnScrolled = func(fyne.Position) {
		g.checkAnchor()
	}

	g.ExtendBaseWidget(g)
	return g
}

// CreateRenderer implements fyne.Widget
func (g *Gallery) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.scroll)
}

// Resize lays out the grid and re-checks the anchor, since a taller
// window can reveal the last cell without any scrolling
func (g *Gallery) Resize(size fyne.Size) {
	g.BaseWidget.Resize(size)
	g.checkAnchor()
}

// Cards returns the cards currently in the grid
func (g *Gallery) Cards() []*PhotoCard {
	return g.cards
}

// Render brings the grid in line with s. Within a session cards are only
// appended; a new session starts from an empty grid.
func (g *Gallery) Render(s feed.Snapshot) {
	if s.Session != g.session {
		g.session = s.Session
		g.cards = nil
		g.grid.Objects = nil
		g.scroll.ScrollToTop()
	}

	for i := len(g.cards); i < len(s.Photos); i++ {
		card := NewPhotoCard(s.Photos[i], g.alwaysShow)
		g.cards = append(g.cards, card)
		g.grid.Add(card)
		g.loadImages(card)
	}

	if s.InFlight && !s.Loading() {
		g.footer.Show()
		g.footer.Start()
	} else {
		g.footer.Stop()
		g.footer.Hide()
	}

	g.grid.Refresh()
	g.scroll.Refresh()

	g.detector.AttachSnapshot(s)
	g.checkAnchor()
}

func (g *Gallery) loadImages(card *PhotoCard) {
	if g.thumbs == nil {
		return
	}
	photo := card.Photo()
	g.thumbs.Load(photo.ThumbnailURL, func(img image.Image) {
		card.SetImage(img)
	})
	g.thumbs.Load(photo.AuthorAvatarURL, func(img image.Image) {
		card.SetAvatar(img)
	})
}

// checkAnchor turns the current scroll geometry into one intersection event
func (g *Gallery) checkAnchor() {
	anchor, ok := g.detector.Attached()
	if !ok || anchor >= len(g.cards) {
		return
	}

	card := g.cards[anchor]
	top := g.grid.Position().Y + card.Position().Y
	bottom := top + card.Size().Height

	visible := feed.AnchorVisible(g.scroll.Offset.Y, g.scroll.Size().Height, top, bottom, 0)
	g.detector.Observe(visible)
}
