package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sift"
)

// Ensure LoggingExtractor implements sift.Extractor.
var _ sift.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs which path was taken.
type LoggingExtractor struct {
	next   sift.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sift.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(html string) (ex *sift.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if ex != nil {
			attrs = append(attrs,
				"method", ex.Method,
				"selector", ex.Selector,
				"ratio", ex.Ratio,
				"removed", ex.Removed,
				"textLen", ex.TextLen,
			)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html)
}
