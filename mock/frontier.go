package mock

import (
	"context"

	"github.com/fwojciec/gridscrape"
)

var _ gridscrape.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of gridscrape.URLFrontier.
type URLFrontier struct {
	PushFn func(entry gridscrape.FrontierEntry) bool
	PopFn  func() (gridscrape.FrontierEntry, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(entry gridscrape.FrontierEntry) bool {
	return f.PushFn(entry)
}

func (f *URLFrontier) Pop() (gridscrape.FrontierEntry, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

var _ gridscrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of gridscrape.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
