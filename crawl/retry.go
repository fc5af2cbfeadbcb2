package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/gridscrape"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryDelays returns the first n delays of the doubling 1s, 2s, 4s, ... sequence.
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// FetchWithRetryDelays fetches a URL, retrying failed attempts after each of
// delays in turn. An empty delays slice makes a single attempt. Errors coded
// EFORBIDDEN, EINVALID or ENOTFOUND are returned without retrying since
// another attempt cannot succeed. If ctx is done between attempts the last
// fetch error is returned. The logger function, if provided, is called for
// each retry attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return "", lastErr
		default:
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", lastErr
		case <-timer.C:
		}
	}

	return "", lastErr
}

func retryable(err error) bool {
	switch gridscrape.ErrorCode(err) {
	case gridscrape.EFORBIDDEN, gridscrape.EINVALID, gridscrape.ENOTFOUND:
		return false
	}
	return true
}
