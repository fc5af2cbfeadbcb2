package crawl

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/gridscrape"
	"golang.org/x/time/rate"
)

var _ gridscrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Only domains registered with AllowDomain may be requested; any other
// domain is refused. Requests to different domains proceed independently.
type DomainLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewDomainLimiter creates a DomainLimiter that allows no domains.
func NewDomainLimiter() *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// AllowDomain allows requests to domain with at least delay between
// consecutive request starts. A zero delay allows requests without limit.
// Calling AllowDomain again for the same domain replaces its policy.
func (d *DomainLimiter) AllowDomain(domain string, delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	d.mu.Lock()
	d.limiters[normalizeDomain(domain)] = rate.NewLimiter(limit, 1)
	d.mu.Unlock()
	return d
}

// Allowed reports whether requests to domain are permitted.
func (d *DomainLimiter) Allowed(domain string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.limiters[normalizeDomain(domain)]
	return ok
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns EFORBIDDEN without waiting if the domain is not allowed, or an
// error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.RLock()
	limiter, ok := d.limiters[normalizeDomain(domain)]
	d.mu.RUnlock()

	if !ok {
		return gridscrape.Errorf(gridscrape.EFORBIDDEN, "domain %q is not allowed", domain)
	}
	return limiter.Wait(ctx)
}

// normalizeDomain lowercases a host and drops any port.
func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host, _, err := net.SplitHostPort(domain); err == nil {
		domain = host
	}
	return domain
}
