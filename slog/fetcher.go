package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sift"
)

// Ensure LoggingContentFetcher implements sift.ContentFetcher.
var _ sift.ContentFetcher = (*LoggingContentFetcher)(nil)

// LoggingContentFetcher wraps a ContentFetcher with per-URL logging.
type LoggingContentFetcher struct {
	next   sift.ContentFetcher
	logger *slog.Logger
}

// NewLoggingContentFetcher creates a new LoggingContentFetcher.
func NewLoggingContentFetcher(next sift.ContentFetcher, logger *slog.Logger) *LoggingContentFetcher {
	return &LoggingContentFetcher{next: next, logger: logger}
}

// FetchContent logs the URL with the size of what was retrieved.
func (f *LoggingContentFetcher) FetchContent(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger) (content sift.Content) {
	defer func(begin time.Time) {
		var method sift.ExtractionMethod
		if content.Extraction != nil {
			method = content.Extraction.Method
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(content.HTML),
			"chars", len(content.Markdown),
			"method", method,
			"clicks", content.Obstacles.Clicks(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.FetchContent(ctx, url, timeout, ledger)
}
