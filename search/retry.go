package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sift"
)

// FetchFunc is the signature for a plain HTML fetch.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fallback fetch retries.
// They are short because every attempt shares the page's navigation budget.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}
}

// FetchWithRetry calls fetch until it succeeds, the delays are exhausted or
// ctx is done. Errors coded EINVALID or ENOTFOUND are returned immediately
// because repeating the request cannot change the outcome.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		switch sift.ErrorCode(err) {
		case sift.EINVALID, sift.ENOTFOUND:
			return "", err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
