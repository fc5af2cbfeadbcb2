package gridscrape

import (
	"fmt"
	"strings"
	"time"
)

// Defaults for scraping ModularGrid.
const (
	DefaultDomain       = "www.modulargrid.net"
	DefaultListURL      = "https://www.modulargrid.net/e/modules/index/sort:Module.name/direction:asc/page:%d"
	DefaultRequestDelay = 2 * time.Second
	DefaultMaxPage      = 2
)

// Config describes what to crawl and how politely.
type Config struct {
	// AllowedDomain is the only host requests are sent to.
	AllowedDomain string

	// RequestDelay is the fixed interval between requests to AllowedDomain.
	// Zero means no delay.
	RequestDelay time.Duration

	// MaxPage is the last list page to visit.
	MaxPage int

	// ListURL is a format string with a single %d verb for the page number.
	ListURL string
}

// DefaultConfig returns the configuration for scraping ModularGrid.
func DefaultConfig() Config {
	return Config{
		AllowedDomain: DefaultDomain,
		RequestDelay:  DefaultRequestDelay,
		MaxPage:       DefaultMaxPage,
		ListURL:       DefaultListURL,
	}
}

// Validate returns an error if the configuration cannot drive a crawl.
func (c Config) Validate() error {
	if c.AllowedDomain == "" {
		return Errorf(EINVALID, "allowed domain required")
	}
	if c.RequestDelay < 0 {
		return Errorf(EINVALID, "request delay must not be negative")
	}
	if c.MaxPage < 1 {
		return Errorf(EINVALID, "max page must be at least 1")
	}
	if strings.Count(c.ListURL, "%d") != 1 {
		return Errorf(EINVALID, "list URL must contain exactly one %%d verb")
	}
	return nil
}

// ListPageURL returns the URL of list page n.
func (c Config) ListPageURL(n int) string {
	return fmt.Sprintf(c.ListURL, n)
}

// Seed returns the entry that starts a crawl: the first list page.
func (c Config) Seed() FrontierEntry {
	return FrontierEntry{URL: c.ListPageURL(1), State: ListPage{Page: 1}}
}
