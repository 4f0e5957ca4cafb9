package rotator

import (
	"html"

	"github.com/google/uuid"
)

const (
	htmlPrefix = `<html><body><img src="`
	htmlSuffix = `"/></body></html>`
)

// Banner is one rotating image with a limited number of impressions.
type Banner struct {
	ID          uuid.UUID
	URL         string
	ShowsAmount uint32
	ShowsLeft   uint32
	Categories  []string
}

// BannerID derives a stable ID from the image URL, so persisted counters
// survive restarts and config reloads.
func BannerID(url string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url))
}

func (b *Banner) CanShow() bool {
	return b.ShowsLeft > 0
}

// HTML renders the page that displays the banner.
func (b *Banner) HTML() string {
	return htmlPrefix + html.EscapeString(b.URL) + htmlSuffix
}
