package gridscrape

import "context"

// URLFrontier is the queue of entries waiting to be fetched.
type URLFrontier interface {
	// Push adds an entry to the frontier.
	// Returns false if the entry was rejected as a duplicate.
	Push(entry FrontierEntry) bool

	// Pop returns the next entry in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of queued entries.
	Len() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns EFORBIDDEN if the domain is not allowed, or an error if the
	// context is canceled.
	Wait(ctx context.Context, domain string) error
}
