package mock

import (
	"context"
	"time"

	"github.com/fwojciec/sift"
)

// Compile-time interface verification.
var (
	_ sift.ContentFetcher  = (*ContentFetcher)(nil)
	_ sift.ObstacleHandler = (*ObstacleHandler)(nil)
	_ sift.DomainLimiter   = (*DomainLimiter)(nil)
	_ sift.TokenCounter    = (*TokenCounter)(nil)
)

// ContentFetcher is a mock implementation of sift.ContentFetcher.
type ContentFetcher struct {
	FetchContentFn func(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger) sift.Content
}

func (f *ContentFetcher) FetchContent(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger) sift.Content {
	return f.FetchContentFn(ctx, url, timeout, ledger)
}

// ObstacleHandler is a mock implementation of sift.ObstacleHandler.
type ObstacleHandler struct {
	HandleObstaclesFn func(ctx context.Context, page sift.Page) sift.ObstacleReport
}

func (h *ObstacleHandler) HandleObstacles(ctx context.Context, page sift.Page) sift.ObstacleReport {
	return h.HandleObstaclesFn(ctx, page)
}

// DomainLimiter is a mock implementation of sift.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// TokenCounter is a mock implementation of sift.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

var _ sift.ConsentDetector = (*ConsentDetector)(nil)

// ConsentDetector is a mock implementation of sift.ConsentDetector.
type ConsentDetector struct {
	DetectFn func(html string) sift.ConsentPlatform
}

func (d *ConsentDetector) Detect(html string) sift.ConsentPlatform {
	return d.DetectFn(html)
}

var _ sift.HTMLFetcher = (*HTMLFetcher)(nil)

// HTMLFetcher is a mock implementation of sift.HTMLFetcher.
type HTMLFetcher struct {
	FetchHTMLFn func(ctx context.Context, url string) (string, error)
}

func (f *HTMLFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	return f.FetchHTMLFn(ctx, url)
}
