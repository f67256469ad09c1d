package unsplash

import "strings"

// Page is one decoded search response.
type Page struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

// Photo represents the subset of a search result the client renders.
// Description and AltDescription are empty when the API sends null.
type Photo struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Color          string `json:"color"`
	URLs           URLs   `json:"urls"`
	User           User   `json:"user"`
}

// URLs lists the rendition links of a photo.
type URLs struct {
	Raw     string `json:"raw"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// User is the photographer credited for a photo.
type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Caption returns the best available text for the photo, preferring the
// author supplied description.
func (p Photo) Caption() string {
	if desc := strings.TrimSpace(p.Description); desc != "" {
		return desc
	}
	return strings.TrimSpace(p.AltDescription)
}

// HasDetails reports whether the photo carries any text for an overlay.
func (p Photo) HasDetails() bool {
	return strings.TrimSpace(p.Description) != "" || strings.TrimSpace(p.AltDescription) != ""
}
