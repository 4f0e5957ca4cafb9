package generator

import (
	"fmt"
	"math/rand/v2"
)

// Sample draws k entries from words without replacement and returns them in
// draw order. Entries are distinct by position, so duplicate strings in words
// can both be drawn. words is never modified.
//
// It runs a partial Fisher-Yates shuffle over a sparse swap table, so the
// cost is O(k) regardless of how large the word list is.
func Sample(r *rand.Rand, words []string, k int) ([]string, error) {
	n := len(words)
	if k < 0 || k > n {
		return nil, fmt.Errorf("%w: need %d distinct words, have %d", ErrSampling, k, n)
	}

	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	out := make([]string, k)
	for i := 0; i < k; i++ {
		j := i + r.IntN(n-i)
		picked := at(j)
		swapped[j] = at(i)
		out[i] = words[picked]
	}
	return out, nil
}
