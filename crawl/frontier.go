package crawl

import (
	"strings"
	"sync"

	"github.com/fwojciec/gridscrape"
	"github.com/fwojciec/gridscrape/bloom"
)

// Compile-time interface verification.
var _ gridscrape.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO queue of frontier entries.
// Duplicate URLs are accepted unless the frontier is created WithDedup.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []gridscrape.FrontierEntry
	head  int
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithDedup rejects URLs that were pushed before, using a Bloom filter
// sized for n expected URLs with the given false positive rate.
// A false positive drops a URL that was never visited.
func WithDedup(n uint, fpRate float64) FrontierOption {
	return func(f *Frontier) {
		f.seen = bloom.NewFilter(n, fpRate)
	}
}

// NewFrontier creates an empty Frontier.
func NewFrontier(opts ...FrontierOption) *Frontier {
	f := &Frontier{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Push appends an entry to the frontier.
// With dedup enabled it returns false if the URL has already been seen;
// URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(entry gridscrape.FrontierEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen != nil {
		if f.seen.TestAndAdd(stripFragment(entry.URL)) {
			return false
		}
	}

	f.queue = append(f.queue, entry)
	return true
}

// Pop removes and returns the oldest entry.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (gridscrape.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return gridscrape.FrontierEntry{}, false
	}
	entry := f.queue[f.head]
	f.queue[f.head] = gridscrape.FrontierEntry{}
	f.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head > 64 && f.head*2 > len(f.queue) {
		n := copy(f.queue, f.queue[f.head:])
		f.queue = f.queue[:n]
		f.head = 0
	}
	return entry, true
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
