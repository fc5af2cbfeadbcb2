package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/gridscrape"
	"github.com/fwojciec/gridscrape/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Crawler *crawl.Crawler
	Modules gridscrape.ModuleService

	// Seed is the first entry a scrape visits.
	Seed gridscrape.FrontierEntry

	// Writers receive every scraped module.
	Writers []gridscrape.ModuleWriter

	// Store, if set, is also in Writers and is committed when the crawl
	// finishes uninterrupted.
	Store gridscrape.ModuleStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"GRIDSCRAPE_DB" help:"SQLite database to store modules in"`
	Verbose bool   `short:"v" help:"Log every request"`

	Scrape ScrapeCmd `cmd:"" default:"withargs" help:"Scrape the catalog (default command)"`
	List   ListCmd   `cmd:"" help:"List modules stored in the database"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored module"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	MaxPage     int           `default:"${max_page}" help:"Last list page to visit"`
	Delay       time.Duration `default:"${delay}" help:"Delay between requests to the same domain (0 disables)"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Retries     int           `default:"3" help:"Retries per failed fetch (0 disables)"`
	MaxRequests int           `default:"0" help:"Stop dispatching after this many requests (0 means no limit)"`
	Dedup       bool          `help:"Skip URLs already visited"`
	Browser     bool          `help:"Render pages with headless Chrome"`
	Readability bool          `help:"Use the page's main content when a module has no description block"`
	Out         string        `short:"o" help:"JSON Lines file to write modules to"`

	Domain  string `default:"${domain}" hidden:"" help:"Only host requests are sent to"`
	ListURL string `name:"list-url" default:"${list_url}" hidden:"" help:"List page URL with a %d page verb"`
}

// Config returns the crawl configuration selected by the flags.
func (c *ScrapeCmd) Config() gridscrape.Config {
	return gridscrape.Config{
		AllowedDomain: c.Domain,
		RequestDelay:  c.Delay,
		MaxPage:       c.MaxPage,
		ListURL:       c.ListURL,
	}
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Manufacturer string `short:"m" help:"Only modules by this manufacturer"`
	MaxWidth     int    `name:"max-width" help:"Only modules at most this many HP wide (0 means any)"`
	Limit        int    `short:"n" help:"Maximum number of modules to show (0 means all)"`
	Offset       int    `help:"Number of modules to skip"`
}

// Filter returns the store filter selected by the flags.
func (c *ListCmd) Filter() gridscrape.ModuleFilter {
	filter := gridscrape.ModuleFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Manufacturer != "" {
		filter.Manufacturer = &c.Manufacturer
	}
	if c.MaxWidth > 0 {
		filter.MaxWidth = &c.MaxWidth
	}
	return filter
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL   string `arg:"" help:"Module detail page URL"`
	Force bool   `help:"Confirm deletion"`
}
