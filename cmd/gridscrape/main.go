package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/gridscrape"
	"github.com/fwojciec/gridscrape/crawl"
	"github.com/fwojciec/gridscrape/fs"
	"github.com/fwojciec/gridscrape/goquery"
	"github.com/fwojciec/gridscrape/htmltomarkdown"
	gridhttp "github.com/fwojciec/gridscrape/http"
	"github.com/fwojciec/gridscrape/readability"
	"github.com/fwojciec/gridscrape/rod"
	gridslog "github.com/fwojciec/gridscrape/slog"
	"github.com/fwojciec/gridscrape/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dedupCapacity sizes the visited-URL filter; the catalog holds a few
// thousand modules.
const dedupCapacity = 100_000

// Main represents the program.
type Main struct {
	// SQLite database, opened when --db is set.
	DB *sqlite.DB

	// Fetcher used by the scrape command.
	Fetcher gridscrape.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run parses args, wires the selected command, and runs it to completion.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("gridscrape"),
		kong.Description("Scrape module specs from the ModularGrid catalog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{
			"domain":   gridscrape.DefaultDomain,
			"list_url": gridscrape.DefaultListURL,
			"delay":    gridscrape.DefaultRequestDelay.String(),
			"max_page": fmt.Sprint(gridscrape.DefaultMaxPage),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" || arg == "help" {
			helpArgs := []string{"--help"}
			if !strings.HasPrefix(args[0], "-") && args[0] != "help" {
				helpArgs = []string{args[0], "--help"}
			}
			_, _ = parser.Parse(helpArgs)
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}
	defer m.Close()

	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")
	switch cmd {
	case "list", "delete":
		if cli.DB == "" {
			return gridscrape.Errorf(gridscrape.EINVALID, "--db or GRIDSCRAPE_DB is required")
		}
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		deps.Modules = sqlite.NewModuleService(m.DB)
	default:
		if err := m.wireScrape(cli, deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set GRIDSCRAPE_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

// wireScrape builds the crawler and the module sinks for the scrape command.
func (m *Main) wireScrape(cli *CLI, deps *Dependencies) error {
	opts := &cli.Scrape
	cfg := opts.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	limiter := crawl.NewDomainLimiter().AllowDomain(cfg.AllowedDomain, cfg.RequestDelay)
	seed := cfg.Seed()
	u, err := url.Parse(seed.URL)
	if err != nil || !limiter.Allowed(u.Hostname()) {
		return gridscrape.Errorf(gridscrape.EINVALID, "list URL host of %q is not the allowed domain %q", seed.URL, cfg.AllowedDomain)
	}
	deps.Seed = seed
	logger := deps.Logger

	var fetcher gridscrape.Fetcher
	if opts.Browser {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(opts.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	} else {
		fetcher = gridhttp.NewFetcher(gridhttp.WithTimeout(opts.Timeout))
	}
	fetcher = gridslog.NewLoggingFetcher(fetcher, logger)
	m.Fetcher = fetcher

	converter := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://" + cfg.AllowedDomain))
	extractorOpts := []goquery.Option{goquery.WithConverter(converter)}
	if opts.Readability {
		extractorOpts = append(extractorOpts, goquery.WithDescriptionFallback(readability.NewExtractor()))
	}
	extractor, err := goquery.NewExtractor(cfg, extractorOpts...)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	var frontierOpts []crawl.FrontierOption
	if opts.Dedup {
		frontierOpts = append(frontierOpts, crawl.WithDedup(dedupCapacity, 0.001))
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   gridslog.NewLoggingExtractor(extractor, logger),
		RateLimiter: limiter,
		Frontier:    crawl.NewFrontier(frontierOpts...),
		Concurrency: opts.Concurrency,
		MaxRequests: opts.MaxRequests,
		RetryDelays: crawl.RetryDelays(opts.Retries),
		Logf: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
		Progress: func(e crawl.ProgressEvent) {
			logger.Debug("progress",
				"url", e.URL,
				"state", e.State,
				"completed", e.Completed,
				"pending", e.Pending,
				"queued", e.Queued,
			)
		},
	}

	if cli.DB != "" {
		if err := m.openDB(cli.DB, deps.Stderr); err != nil {
			return err
		}
		deps.Writers = append(deps.Writers, sqlite.NewModuleService(m.DB))
	}
	if opts.Out != "" {
		deps.Store = fs.NewFileStore(opts.Out)
		deps.Writers = append(deps.Writers, deps.Store)
	}
	if len(deps.Writers) == 0 {
		deps.Writers = append(deps.Writers, NewJSONWriter(deps.Stdout))
	}
	return nil
}
