package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sift"
)

// Ensure LoggingBrowser implements sift.Browser.
var _ sift.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with page lifecycle logging.
type LoggingBrowser struct {
	next   sift.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next sift.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// NewPage logs how long opening the page took and delegates to the wrapped browser.
func (b *LoggingBrowser) NewPage(ctx context.Context) (page sift.Page, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("open page",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.NewPage(ctx)
}

// Close logs and delegates to the wrapped browser.
func (b *LoggingBrowser) Close() (err error) {
	defer func() {
		b.logger.Debug("close browser", "err", err)
	}()
	return b.next.Close()
}
