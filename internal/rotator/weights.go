package rotator

import (
	"math/rand/v2"
	"sort"
)

// CumulativeWeights picks an index with probability proportional to its
// weight. It stores running sums, so a pick is a binary search.
//
// Identity weights (NewCumulativeWeights) report positions in insertion
// order. Projected weights (NewProjectedWeights) map every position to the
// banner index it was added for.
type CumulativeWeights struct {
	sums       []uint64
	projection []int
	projected  bool
}

func NewCumulativeWeights() *CumulativeWeights {
	return &CumulativeWeights{}
}

func NewProjectedWeights(capacity int) *CumulativeWeights {
	return &CumulativeWeights{
		sums:       make([]uint64, 0, capacity),
		projection: make([]int, 0, capacity),
		projected:  true,
	}
}

// Add appends a weight for the next position. Only valid on identity weights.
func (w *CumulativeWeights) Add(weight uint32) {
	if w.projected {
		panic("rotator: Add on projected weights, use AddFor")
	}
	w.push(weight)
}

// AddFor appends a weight that selects idx. Only valid on projected weights.
func (w *CumulativeWeights) AddFor(idx int, weight uint32) {
	if !w.projected {
		panic("rotator: AddFor on identity weights, use Add")
	}
	w.projection = append(w.projection, idx)
	w.push(weight)
}

func (w *CumulativeWeights) push(weight uint32) {
	var last uint64
	if n := len(w.sums); n > 0 {
		last = w.sums[n-1]
	}
	w.sums = append(w.sums, last+uint64(weight))
}

func (w *CumulativeWeights) Len() int {
	return len(w.sums)
}

// Total is the sum of all weights.
func (w *CumulativeWeights) Total() uint64 {
	if len(w.sums) == 0 {
		return 0
	}
	return w.sums[len(w.sums)-1]
}

// Select draws an index. ok is false when there is nothing with a
// positive weight to choose from.
func (w *CumulativeWeights) Select(r *rand.Rand) (idx int, ok bool) {
	total := w.Total()
	if total == 0 {
		return 0, false
	}

	rnd := r.Uint64N(total)
	pos := sort.Search(len(w.sums), func(i int) bool { return w.sums[i] > rnd })

	if w.projected {
		return w.projection[pos], true
	}
	return pos, true
}
