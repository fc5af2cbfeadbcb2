package gridscrape

import (
	"context"
	"fmt"
	"net/http"
)

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch requests the URL and returns the response body decoded as UTF-8.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// StatusError returns the error for a non-2xx response. Client errors that
// another attempt cannot fix are coded ENOTFOUND or EINVALID; timeouts, rate
// limiting and server errors stay uncoded so callers may retry them.
func StatusError(status int, url string) error {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return Errorf(ENOTFOUND, "HTTP %d for %s", status, url)
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		return fmt.Errorf("HTTP %d for %s", status, url)
	case status >= 400 && status < 500:
		return Errorf(EINVALID, "HTTP %d for %s", status, url)
	}
	return fmt.Errorf("HTTP %d for %s", status, url)
}
