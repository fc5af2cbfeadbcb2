// Package crawl drives a scrape: it owns the frontier, feeds a bounded
// worker pool, applies per-domain rate limits, and streams results.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/gridscrape"
)

// DefaultConcurrency is the number of workers used when Crawler.Concurrency is unset.
const DefaultConcurrency = 3

// Crawler walks a site from seed entries until the frontier drains.
type Crawler struct {
	Fetcher     gridscrape.Fetcher
	Extractor   gridscrape.Extractor
	RateLimiter gridscrape.DomainLimiter

	// Frontier holds pending entries. A FIFO frontier without dedup is
	// created per crawl when nil.
	Frontier gridscrape.URLFrontier

	// Concurrency is the number of workers. Defaults to DefaultConcurrency.
	Concurrency int

	// MaxRequests caps the number of entries dispatched. Zero means no cap.
	MaxRequests int

	// RetryDelays are the backoff delays between fetch attempts.
	// Nil uses DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Progress, if set, is called from the coordinator after every visit.
	Progress ProgressFunc

	// Logf, if set, receives retry messages.
	Logf LogFunc
}

// ProgressEvent reports the state of a crawl after a visit completes.
type ProgressEvent struct {
	URL       string
	State     gridscrape.VisitState
	Completed int
	Pending   int
	Queued    int
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// visit is the outcome of processing one frontier entry.
type visit struct {
	entry    gridscrape.FrontierEntry
	next     []gridscrape.FrontierEntry
	module   *gridscrape.Module
	err      error
	canceled bool
}

// Crawl seeds the frontier and starts crawling in the background.
// Results are delivered on the returned channel, which is closed once the
// frontier is empty and no visit is in flight.
//
// Canceling ctx stops dispatching new entries. Fetches already in flight
// run to completion (bounded by the fetcher's timeout) and their results
// are still delivered. Callers must drain the channel.
func (c *Crawler) Crawl(ctx context.Context, seeds ...gridscrape.FrontierEntry) <-chan gridscrape.Result {
	frontier := c.Frontier
	if frontier == nil {
		frontier = NewFrontier()
	}
	for _, seed := range seeds {
		frontier.Push(seed)
	}

	out := make(chan gridscrape.Result)
	go c.coordinate(ctx, frontier, out)
	return out
}

// coordinate owns the frontier and the in-flight count. Workers never touch
// the frontier; they report discovered entries back here, so an empty
// frontier with zero pending visits means the crawl is finished.
func (c *Crawler) coordinate(ctx context.Context, frontier gridscrape.URLFrontier, out chan<- gridscrape.Result) {
	defer close(out)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	workCh := make(chan gridscrape.FrontierEntry)
	visitCh := make(chan visit)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range workCh {
				visitCh <- c.visit(ctx, entry)
			}
		}()
	}
	defer func() {
		close(workCh)
		wg.Wait()
	}()

	var (
		pending    int
		dispatched int
		completed  int
		stopped    bool
		done       = ctx.Done()
		next       gridscrape.FrontierEntry
		ready      bool
	)

	for {
		if !ready && !stopped && (c.MaxRequests <= 0 || dispatched < c.MaxRequests) {
			next, ready = frontier.Pop()
		}
		if !ready && pending == 0 {
			return
		}

		// A nil channel disables the dispatch case when nothing is ready.
		var work chan<- gridscrape.FrontierEntry
		if ready {
			work = workCh
		}

		select {
		case work <- next:
			ready = false
			pending++
			dispatched++

		case v := <-visitCh:
			pending--
			completed++
			for _, entry := range v.next {
				frontier.Push(entry)
			}
			if c.Progress != nil {
				c.Progress(ProgressEvent{
					URL:       v.entry.URL,
					State:     v.entry.State,
					Completed: completed,
					Pending:   pending,
					Queued:    frontier.Len(),
					Error:     v.err,
				})
			}
			if v.canceled {
				continue
			}
			if v.err != nil || v.module != nil {
				out <- gridscrape.Result{
					URL:    v.entry.URL,
					State:  v.entry.State,
					Module: v.module,
					Err:    v.err,
				}
			}

		case <-done:
			done = nil
			stopped = true
			ready = false
		}
	}
}

// visit rate-limits, fetches, and extracts a single entry.
func (c *Crawler) visit(ctx context.Context, entry gridscrape.FrontierEntry) visit {
	v := visit{entry: entry}

	u, err := url.Parse(entry.URL)
	if err != nil || u.Hostname() == "" {
		v.err = gridscrape.Errorf(gridscrape.EINVALID, "invalid URL %q", entry.URL)
		return v
	}

	if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
		// Entries still waiting on the limiter at shutdown were never fetched.
		if ctx.Err() != nil && gridscrape.ErrorCode(err) != gridscrape.EFORBIDDEN {
			v.canceled = true
		}
		v.err = err
		return v
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	// Every retry waits on the domain limiter again. Once started, a fetch
	// is not interrupted by shutdown.
	attempts := 0
	var lastErr error
	fetch := func(ctx context.Context, url string) (string, error) {
		attempts++
		if attempts > 1 {
			if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
				return "", lastErr
			}
		}
		html, err := c.Fetcher.Fetch(context.WithoutCancel(ctx), url)
		lastErr = err
		return html, err
	}
	html, err := FetchWithRetryDelays(ctx, entry.URL, fetch, c.Logf, delays)
	if err != nil {
		v.err = fmt.Errorf("fetch %s: %w", entry.URL, err)
		return v
	}

	extraction, err := c.Extractor.Extract(&gridscrape.Response{
		URL:   entry.URL,
		Body:  html,
		State: entry.State,
	})
	if err != nil {
		v.err = fmt.Errorf("extract %s: %w", entry.URL, err)
		return v
	}

	if extraction != nil {
		v.next = extraction.Next
		v.module = extraction.Module
	}
	return v
}
