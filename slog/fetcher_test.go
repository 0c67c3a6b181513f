package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/mock"
	siftslog "github.com/fwojciec/sift/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingContentFetcher_FetchContent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ContentFetcher{
		FetchContentFn: func(ctx context.Context, url string, timeout time.Duration, ledger *sift.TimingLedger) sift.Content {
			return sift.Content{
				HTML:       "<p>hello</p>",
				Markdown:   "hello",
				Extraction: &sift.Extraction{Method: sift.FallbackCleaned},
				Obstacles:  sift.ObstacleReport{TextClicks: 1},
			}
		},
	}

	content := siftslog.NewLoggingContentFetcher(inner, logger).FetchContent(context.Background(), "https://example.com", time.Second, nil)

	assert.Equal(t, "hello", content.Markdown)
	output := buf.String()
	assert.Contains(t, output, "url=https://example.com")
	assert.Contains(t, output, "bytes=12")
	assert.Contains(t, output, "chars=5")
	assert.Contains(t, output, "method=cleaned")
	assert.Contains(t, output, "clicks=1")
}
