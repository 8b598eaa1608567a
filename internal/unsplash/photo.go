package unsplash

// DefaultAltText is shown for photos without an alt description
const DefaultAltText = "Unsplash Image"

// Photo is a single image record as returned by the provider.
// It is never modified after decoding.
type Photo struct {
	ID              string // Unique per provider
	ThumbnailURL    string // Small rendition used in the grid
	AltText         string // May be empty
	Likes           int    // Never negative
	AuthorName      string
	AuthorAvatarURL string
}

// Alt returns the alt text or DefaultAltText when the provider sent none
func (p Photo) Alt() string {
	if p.AltText == "" {
		return DefaultAltText
	}
	return p.AltText
}

// Page is the fail-soft result of loading one page.
// When Err is set, Photos is empty.
type Page struct {
	Query  string
	Number int
	Photos []Photo
	Err    error
}

// searchResponse is the envelope of /search/photos
type searchResponse struct {
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Results    []apiPhoto `json:"results"`
}

// apiPhoto is the subset of the provider's photo object we use
type apiPhoto struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AltDesc     string    `json:"alt_description"`
	Likes       int       `json:"likes"`
	URLs        apiURLs   `json:"urls"`
	User        apiAuthor `json:"user"`
}

type apiURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

type apiAuthor struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	ProfileImage apiProfileImage `json:"profile_image"`
}

type apiProfileImage struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// normalize converts wire photos into Photo records
func normalize(in []apiPhoto) []Photo {
	photos := make([]Photo, 0, len(in))
	for _, p := range in {
		thumb := p.URLs.Small
		if thumb == "" {
			thumb = p.URLs.Thumb
		}

		name := p.User.Name
		if name == "" {
			name = p.User.Username
		}

		likes := p.Likes
		if likes < 0 {
			likes = 0
		}

		photos = append(photos, Photo{
			ID:              p.ID,
			ThumbnailURL:    thumb,
			AltText:         p.AltDesc,
			Likes:           likes,
			AuthorName:      name,
			AuthorAvatarURL: p.User.ProfileImage.Medium,
		})
	}
	return photos
}
