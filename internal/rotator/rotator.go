package rotator

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pkg.jsn.cam/banners/pkg/storage"
)

// Rotator serves banners in proportion to their shows amount until each
// one runs out of shows.
type Rotator struct {
	mu sync.Mutex

	banners   []*Banner
	byID      map[uuid.UUID]int
	index     map[string][]int
	weights   *CumulativeWeights
	exhausted int

	rand  *rand.Rand
	store storage.Store
	log   logrus.FieldLogger
}

func New(store storage.Store, r *rand.Rand, log logrus.FieldLogger) *Rotator {
	return &Rotator{
		byID:    make(map[uuid.UUID]int),
		index:   make(map[string][]int),
		weights: NewCumulativeWeights(),
		rand:    r,
		store:   store,
		log:     log,
	}
}

// AddBanner registers a banner. Banners without a URL, without shows or
// without categories are ignored and reported with added == false.
// A persisted counter for the same URL takes precedence over showsAmount.
func (rt *Rotator) AddBanner(url string, showsAmount uint32, categories []string) (added bool, err error) {
	if url == "" || showsAmount == 0 || len(categories) == 0 {
		return false, nil
	}

	id := BannerID(url)

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, exists := rt.byID[id]; exists {
		return false, fmt.Errorf("%w: %s", ErrDuplicateBanner, url)
	}

	left, ok, err := rt.store.Load(id)
	if err != nil {
		return false, fmt.Errorf("load shows for %s: %w", url, err)
	}
	if !ok || left > showsAmount {
		left = showsAmount
	}

	b := &Banner{
		ID:          id,
		URL:         url,
		ShowsAmount: showsAmount,
		ShowsLeft:   left,
		Categories:  slices.Clone(categories),
	}
	idx := len(rt.banners)
	rt.banners = append(rt.banners, b)
	rt.byID[id] = idx

	for _, c := range categories {
		if list := rt.index[c]; len(list) == 0 || list[len(list)-1] != idx {
			rt.index[c] = append(list, idx)
		}
	}

	rt.weights.Add(showsAmount)
	if !b.CanShow() {
		rt.exhausted++
	}
	return true, nil
}

// BannerHTML picks a banner for the requested categories, spends one of its
// shows and returns its HTML. With no categories every banner is eligible.
func (rt *Rotator) BannerHTML(categories []string) (string, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	idx, ok := rt.pick(categories)
	if !ok {
		return "", ErrNoBanner
	}

	b := rt.banners[idx]
	if err := rt.store.Save(b.ID, b.ShowsLeft-1); err != nil {
		return "", fmt.Errorf("save shows for %s: %w", b.URL, err)
	}
	b.ShowsLeft--
	if !b.CanShow() {
		rt.exhausted++
		rt.log.Debugf("[ROTATOR] banner %s is out of shows", b.URL)
	}

	return b.HTML(), nil
}

func (rt *Rotator) pick(categories []string) (int, bool) {
	if len(categories) == 0 && rt.exhausted == 0 {
		return rt.weights.Select(rt.rand)
	}

	candidates := rt.candidates(categories)
	w := NewProjectedWeights(len(candidates))
	for _, idx := range candidates {
		w.AddFor(idx, rt.banners[idx].ShowsAmount)
	}
	return w.Select(rt.rand)
}

// candidates returns the showable banners for categories in ascending index
// order. No categories means all banners.
func (rt *Rotator) candidates(categories []string) []int {
	var out []int
	if len(categories) == 0 {
		for idx, b := range rt.banners {
			if b.CanShow() {
				out = append(out, idx)
			}
		}
		return out
	}

	seen := make(map[int]struct{})
	for _, c := range categories {
		for _, idx := range rt.index[c] {
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			if rt.banners[idx].CanShow() {
				out = append(out, idx)
			}
		}
	}
	slices.Sort(out)
	return out
}

// BannerStats is a point-in-time view of one banner.
type BannerStats struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	ShowsAmount uint32   `json:"shows_amount"`
	ShowsLeft   uint32   `json:"shows_left"`
	Categories  []string `json:"categories"`
}

// Stats returns a snapshot of every banner in load order.
func (rt *Rotator) Stats() []BannerStats {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	out := make([]BannerStats, 0, len(rt.banners))
	for _, b := range rt.banners {
		out = append(out, BannerStats{
			ID:          b.ID.String(),
			URL:         b.URL,
			ShowsAmount: b.ShowsAmount,
			ShowsLeft:   b.ShowsLeft,
			Categories:  slices.Clone(b.Categories),
		})
	}
	return out
}

// Len returns the number of loaded banners and how many are out of shows.
func (rt *Rotator) Len() (total, exhausted int) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.banners), rt.exhausted
}

// Reconcile walks the persisted counters and reports how many belong to a
// loaded banner and how many are orphaned by banners no longer in the config.
func (rt *Rotator) Reconcile() (restored, orphaned int, err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	err = rt.store.ForEach(func(id uuid.UUID, left uint32) error {
		if _, ok := rt.byID[id]; ok {
			restored++
			return nil
		}
		orphaned++
		rt.log.Warnf("[ROTATOR] persisted counter %s (%d shows left) has no banner in the config", id, left)
		return nil
	})
	return restored, orphaned, err
}
