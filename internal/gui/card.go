package gui

import (
	"image"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/photobooth/internal/unsplash"
)

var (
	placeholderColor = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	captionColor     = color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	scrimColor       = color.NRGBA{A: 0xa0}
	badgeColor       = color.NRGBA{A: 0x80}
	heartColor       = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	avatarSize       = fyne.NewSize(32, 32)
)

// PhotoCard is one grid cell: the thumbnail plus an overlay with the
// author and the like count that appears while the pointer is over it
type PhotoCard struct {
	widget.BaseWidget

	photo      unsplash.Photo
	alwaysShow bool
	hovered    bool

	placeholder *canvas.Rectangle
	caption     *canvas.Text
	image       *canvas.Image
	avatar      *canvas.Image
	overlay     *fyne.Container
	content     *fyne.Container
}

// NewPhotoCard creates a card for photo. With alwaysShow the overlay is
// permanently visible, as on touch devices.
func NewPhotoCard(photo unsplash.Photo, alwaysShow bool) *PhotoCard {
	c := &PhotoCard{
		photo:      photo,
		alwaysShow: alwaysShow,
	}

	c.placeholder = canvas.NewRectangle(placeholderColor)
	c.placeholder.CornerRadius = 8

	// Alt text stands in for the photo until the thumbnail decodes
	c.caption = canvas.NewText(photo.Alt(), captionColor)
	c.caption.TextSize = 13
	c.caption.Alignment = fyne.TextAlignCenter

	c.image = canvas.NewImageFromImage(nil)
	c.image.FillMode = canvas.ImageFillContain
	c.image.ScaleMode = canvas.ImageScaleSmooth

	c.avatar = canvas.NewImageFromImage(nil)
	c.avatar.FillMode = canvas.ImageFillContain
	c.avatar.SetMinSize(avatarSize)

	author := canvas.NewText(photo.AuthorName, color.White)
	author.TextSize = 13

	heart := canvas.NewText("♥", heartColor)
	likes := canvas.NewText(strconv.Itoa(photo.Likes), color.White)
	likes.TextSize = 13

	badge := container.NewStack(
		canvas.NewRectangle(badgeColor),
		container.NewPadded(container.NewHBox(heart, likes)),
	)

	c.overlay = container.NewStack(
		canvas.NewVerticalGradient(color.Transparent, scrimColor),
		container.NewPadded(container.NewBorder(
			container.NewHBox(layout.NewSpacer(), badge),
			container.NewHBox(c.avatar, container.NewCenter(author)),
			nil, nil,
		)),
	)
	c.overlay.Hidden = !alwaysShow

	c.content = container.NewStack(
		c.placeholder,
		container.NewCenter(c.caption),
		c.image,
		c.overlay,
	)

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *PhotoCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.content)
}

// Photo returns the record shown by the card
func (c *PhotoCard) Photo() unsplash.Photo {
	return c.photo
}

// SetImage shows the decoded thumbnail in place of the alt text
func (c *PhotoCard) SetImage(img image.Image) {
	c.image.Image = img
	c.image.Refresh()
	c.caption.Hide()
}

// Caption returns the alt text shown while no thumbnail is loaded, or ""
// once the thumbnail is visible
func (c *PhotoCard) Caption() string {
	if c.caption.Hidden {
		return ""
	}
	return c.caption.Text
}

// SetAvatar shows the decoded author avatar
func (c *PhotoCard) SetAvatar(img image.Image) {
	c.avatar.Image = img
	c.avatar.Refresh()
}

// OverlayVisible reports whether author and likes are currently shown
func (c *PhotoCard) OverlayVisible() bool {
	return !c.overlay.Hidden
}

// MouseIn implements desktop.Hoverable
func (c *PhotoCard) MouseIn(*desktop.MouseEvent) {
	c.setHovered(true)
}

// MouseMoved implements desktop.Hoverable
func (c *PhotoCard) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (c *PhotoCard) MouseOut() {
	c.setHovered(false)
}

func (c *PhotoCard) setHovered(hovered bool) {
	c.hovered = hovered
	visible := c.alwaysShow || hovered
	if visible == c.OverlayVisible() {
		return
	}
	if visible {
		c.overlay.Show()
	} else {
		c.overlay.Hide()
	}
}
