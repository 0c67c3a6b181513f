// Package slog provides logging decorators for sift interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sift"
)

// Ensure LoggingSearcher implements sift.Searcher.
var _ sift.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging. Failures are logged at
// error level because callers treat them as zero results.
type LoggingSearcher struct {
	next   sift.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next sift.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string, limit int) (items []*sift.SearchItem, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("search",
				"query", query,
				"code", sift.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		s.logger.Info("search",
			"query", query,
			"limit", limit,
			"count", len(items),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Search(ctx, query, limit)
}
