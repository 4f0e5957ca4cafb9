package generator

import (
	"math/rand/v2"
	"strconv"
)

const (
	bannerURLPrefix = "http://banners.com/banner"
	bannerURLSuffix = ".jpg"

	MinShows      = 1
	MaxShows      = 1000
	MinCategories = 1
	MaxCategories = 10
)

// BannerURL returns the image URL of the i-th banner.
func BannerURL(i int64) string {
	return bannerURLPrefix + strconv.FormatInt(i, 10) + bannerURLSuffix
}

// BannerGenerator generates banner rotator config rows in format:
// "{url};{shows_amount};{category};..."
type BannerGenerator struct {
	Words []string

	// Category count bounds, inclusive. Zero values fall back to
	// MinCategories and MaxCategories.
	MinCategories int
	MaxCategories int

	rand *rand.Rand
}

// NewBannerGenerator returns a generator drawing categories from words.
func NewBannerGenerator(words []string) *BannerGenerator {
	return &BannerGenerator{
		Words:         words,
		MinCategories: MinCategories,
		MaxCategories: MaxCategories,
	}
}

func (g *BannerGenerator) Init(r *rand.Rand) {
	g.rand = r
}

func (g *BannerGenerator) Row(i int64) ([]string, error) {
	shows := MinShows + g.rand.IntN(MaxShows-MinShows+1)

	lo, hi := g.categoryBounds()
	k := lo + g.rand.IntN(hi-lo+1)

	categories, err := Sample(g.rand, g.Words, k)
	if err != nil {
		return nil, err
	}

	row := make([]string, 0, 2+k)
	row = append(row, BannerURL(i), strconv.Itoa(shows))
	return append(row, categories...), nil
}

func (g *BannerGenerator) categoryBounds() (int, int) {
	lo, hi := g.MinCategories, g.MaxCategories
	if lo <= 0 {
		lo = MinCategories
	}
	if hi <= 0 {
		hi = MaxCategories
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (g *BannerGenerator) Description() string {
	return "Banner rotator config: url;shows_amount;category;..."
}
