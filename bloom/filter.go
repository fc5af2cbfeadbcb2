// Package bloom provides probabilistic URL deduplication for the frontier.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter remembers URLs in a Bloom filter. It is not safe for concurrent
// use; callers serialize access.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd records the URL and reports whether it might have been
// recorded before. False positives are possible; false negatives are not.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}
