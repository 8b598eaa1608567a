package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"codeberg.org/snonux/photobooth/internal/unsplash"
)

// Photos returns n distinct photos whose IDs are prefix-0 .. prefix-(n-1)
func Photos(prefix string, n int) []unsplash.Photo {
	out := make([]unsplash.Photo, n)
	for i := range out {
		id := fmt.Sprintf("%s-%d", prefix, i)
		out[i] = unsplash.Photo{
			ID:              id,
			ThumbnailURL:    "https://images.example.com/" + id + ".png",
			AltText:         "photo " + id,
			Likes:           i,
			AuthorName:      prefix,
			AuthorAvatarURL: "https://images.example.com/avatar-" + prefix + ".png",
		}
	}
	return out
}

// IDs returns the IDs of photos in order
func IDs(photos []unsplash.Photo) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.ID
	}
	return out
}

// EncodePNG returns a PNG of the given size filled with a single colour
func EncodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fill := color.NRGBA{R: 0x40, G: 0x80, B: 0xc0, A: 0xff}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// AssertIDs checks that photos carry exactly the expected IDs in order
func AssertIDs(t *testing.T, photos []unsplash.Photo, expected ...string) {
	t.Helper()

	actual := IDs(photos)
	if strings.Join(actual, ",") != strings.Join(expected, ",") {
		t.Errorf("Photo IDs mismatch\nExpected: %v\nActual: %v", expected, actual)
	}
}
