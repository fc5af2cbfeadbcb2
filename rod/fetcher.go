// Package rod implements gridscrape.Fetcher with a headless Chrome browser.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/gridscrape"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements gridscrape.Fetcher at compile time.
var _ gridscrape.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher renders pages in headless Chrome and returns the resulting HTML.
// It is safe for concurrent use; each fetch opens its own tab.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	timeout  time.Duration
	maxPages int64
}

// WithFetchTimeout sets the per-page timeout. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRecycleAfter restarts the browser after n rendered pages.
// Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) Option {
	return func(o *options) {
		o.maxPages = n
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	o := options{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&o)
	}

	manager, err := NewBrowserManager(WithMaxPages(o.maxPages))
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager, timeout: o.timeout}, nil
}

// Fetch navigates a fresh tab to url and returns the rendered HTML.
// A non-2xx status on the main document is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", gridscrape.Errorf(gridscrape.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	status := 0
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	waitResponse()
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if status != 0 && (status < 200 || status > 299) {
		return "", gridscrape.StatusError(status, url)
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}
	f.manager.IncrementPageCount()
	return html, nil
}

// Close shuts down the browser. It is safe to call more than once.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the browser process ID, or zero once closed.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
