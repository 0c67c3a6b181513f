package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/sift"
)

// DefaultSettleDelay is the pause after navigation that lets client-side
// rendering catch up.
const DefaultSettleDelay = time.Second

var _ sift.ContentFetcher = (*Fetcher)(nil)

// Fetcher runs the per-URL pipeline: open a page, navigate, dismiss
// obstacles, capture, extract and normalize.
//
// Browser, Extractor and Normalizer are required. Obstacles, Detector,
// Limiter and Fallback are optional.
type Fetcher struct {
	Browser    sift.Browser
	Obstacles  sift.ObstacleHandler
	Extractor  sift.Extractor
	Normalizer sift.Normalizer
	Detector   sift.ConsentDetector
	Limiter    sift.DomainLimiter

	// Fallback fetches plain HTML when no page could be opened.
	Fallback sift.HTMLFetcher

	// ShouldBlock decides which requests are aborted. Defaults to
	// sift.DefaultShouldBlock.
	ShouldBlock sift.BlockFunc

	UserAgent string

	// SettleDelay defaults to DefaultSettleDelay. Negative disables it.
	SettleDelay time.Duration

	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// FetchContent retrieves the content of a single URL. It never fails:
// errors and panics are logged and degrade to an empty Content. Stage
// durations are recorded into ledger under "<url>|<stage>" keys.
func (f *Fetcher) FetchContent(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger) (content sift.Content) {
	defer ledger.Track(sift.StageKey(url, sift.StageFetch))()
	logger := f.logger().With("url", url)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("fetch panicked", "panic", fmt.Sprint(r))
			content = sift.Content{}
		}
	}()

	if timeout <= 0 {
		timeout = sift.DefaultTimeout
	}

	html, report, err := f.render(ctx, url, timeout, ledger, logger)
	if err != nil {
		if f.Fallback == nil {
			logger.Error("fetch failed", "err", err)
			return sift.Content{}
		}
		logger.Warn("browser unavailable, fetching without rendering", "err", err)
		html, err = f.fetchPlain(ctx, url, timeout, ledger, logger)
		if err != nil {
			logger.Error("fetch failed", "err", err)
			return sift.Content{}
		}
	}
	if html == "" {
		logger.Warn("page is empty")
		return sift.Content{Obstacles: report}
	}
	if f.Detector != nil {
		report.Platform = f.Detector.Detect(html)
	}

	extraction := f.extract(html, url, ledger, logger)
	markdown := f.normalize(extraction.HTML, url, ledger, logger)

	return sift.Content{
		HTML:       extraction.HTML,
		Markdown:   markdown,
		Extraction: extraction,
		Obstacles:  report,
	}
}

// render drives a browser page and returns the captured document. An
// error means no page could be used at all; navigation problems are only
// logged because the page may still hold partial content.
func (f *Fetcher) render(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger, logger *slog.Logger) (string, sift.ObstacleReport, error) {
	var report sift.ObstacleReport

	done := ledger.Track(sift.StageKey(url, sift.StagePage))
	page, err := f.Browser.NewPage(ctx)
	done()
	if err != nil {
		return "", report, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debug("closing page failed", "err", err)
		}
	}()

	ua := f.UserAgent
	if ua == "" {
		ua = sift.DefaultUserAgent
	}
	if err := page.SetUserAgent(ua); err != nil {
		logger.Debug("setting user agent failed", "err", err)
	}
	if err := page.SetViewport(sift.ViewportWidth, sift.ViewportHeight); err != nil {
		logger.Debug("setting viewport failed", "err", err)
	}
	block := f.ShouldBlock
	if block == nil {
		block = sift.DefaultShouldBlock
	}
	if err := page.BlockResources(block); err != nil {
		logger.Warn("request blocking unavailable", "err", err)
	}

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx, hostOf(url)); err != nil {
			return "", report, err
		}
	}

	done = ledger.Track(sift.StageKey(url, sift.StageNavigate))
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	err = page.Navigate(navCtx, url)
	cancel()
	done()
	if err != nil {
		logger.Warn("navigation incomplete", "err", err, "timeout", timeout)
	}

	done = ledger.Track(sift.StageKey(url, sift.StageSettle))
	sleep(ctx, f.settleDelay())
	done()

	if f.Obstacles != nil {
		done = ledger.Track(sift.StageKey(url, sift.StageObstacles))
		report = f.Obstacles.HandleObstacles(ctx, page)
		done()
		if report.Clicks() > 0 || report.FailedClicks > 0 {
			logger.Debug("obstacles handled",
				"selectorClicks", report.SelectorClicks,
				"textClicks", report.TextClicks,
				"failedClicks", report.FailedClicks,
			)
		}
	}

	done = ledger.Track(sift.StageKey(url, sift.StageCapture))
	captureCtx, cancel := context.WithTimeout(ctx, timeout)
	html, err := page.HTML(captureCtx)
	cancel()
	done()
	if err != nil {
		logger.Warn("capturing page failed", "err", err)
		return "", report, nil
	}
	return html, report, nil
}

func (f *Fetcher) fetchPlain(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger, logger *slog.Logger) (string, error) {
	defer ledger.Track(sift.StageKey(url, sift.StageNavigate))()

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx, hostOf(url)); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delays := f.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, url, f.Fallback.FetchHTML, logger, delays)
}

// extract never returns nil; extractor errors fall back to the raw HTML.
func (f *Fetcher) extract(html, url string, ledger *sift.TimingLedger, logger *slog.Logger) *sift.Extraction {
	defer ledger.Track(sift.StageKey(url, sift.StageExtract))()

	ex, err := f.Extractor.Extract(html)
	if err != nil || ex == nil {
		logger.Warn("extraction failed, using raw page", "err", err)
		return sift.RawExtraction(html)
	}
	return ex
}

// normalize returns "" when the normalizer fails.
func (f *Fetcher) normalize(html, url string, ledger *sift.TimingLedger, logger *slog.Logger) string {
	defer ledger.Track(sift.StageKey(url, sift.StageNormalize))()

	md, err := f.Normalizer.Normalize(html)
	if err != nil {
		logger.Warn("normalization failed", "err", err)
		return ""
	}
	return md
}

func (f *Fetcher) settleDelay() time.Duration {
	if f.SettleDelay < 0 {
		return 0
	}
	if f.SettleDelay == 0 {
		return DefaultSettleDelay
	}
	return f.SettleDelay
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return discardLogger
	}
	return f.Logger
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
