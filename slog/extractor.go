package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/gridscrape"
)

// Ensure LoggingExtractor implements gridscrape.Extractor.
var _ gridscrape.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of each page it interprets.
type LoggingExtractor struct {
	next   gridscrape.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next gridscrape.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(resp *gridscrape.Response) (result *gridscrape.Extraction, err error) {
	defer func(begin time.Time) {
		var next int
		var module string
		if result != nil {
			next = len(result.Next)
			if result.Module != nil {
				module = result.Module.Name
			}
		}
		e.logger.Debug("extract",
			"url", resp.URL,
			"state", resp.State,
			"next", next,
			"module", module,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(resp)
}
