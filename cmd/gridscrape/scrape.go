package main

import (
	"context"
	"fmt"
)

// Run crawls from the seed and hands every module to the writers.
// Per-module failures are logged and counted, not returned; the run fails
// only when it is interrupted or output cannot be committed.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	// Results of in-flight visits are still saved after cancellation.
	saveCtx := context.WithoutCancel(deps.Ctx)
	writer := NewMultiWriter(deps.Writers...)

	var scraped, failed int
	for result := range deps.Crawler.Crawl(deps.Ctx, deps.Seed) {
		if result.Err != nil {
			failed++
			deps.Logger.Error("scrape failed", "url", result.URL, "state", result.State, "err", result.Err)
			continue
		}
		if err := writer.SaveModule(saveCtx, result.Module); err != nil {
			failed++
			deps.Logger.Error("save failed", "url", result.URL, "err", err)
			continue
		}
		scraped++
	}

	fmt.Fprintf(deps.Stderr, "scraped %d modules, %d errors\n", scraped, failed)

	if err := deps.Ctx.Err(); err != nil {
		if deps.Store != nil {
			if abortErr := deps.Store.Abort(); abortErr != nil {
				deps.Logger.Error("abort failed", "err", abortErr)
			}
		}
		return fmt.Errorf("scrape interrupted: %w", err)
	}

	if deps.Store != nil {
		if err := deps.Store.Commit(); err != nil {
			return fmt.Errorf("failed to commit output: %w", err)
		}
	}
	return nil
}
