package rod_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/mock"
	"github.com/fwojciec/sift/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBrowser(t *testing.T) {
	t.Parallel()

	t.Run("logs page open", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		page := &mock.Page{}
		next := &mock.Browser{
			NewPageFn: func(ctx context.Context) (sift.Page, error) { return page, nil },
		}

		got, err := rod.NewLoggingBrowser(next, logger).NewPage(context.Background())

		require.NoError(t, err)
		assert.Same(t, page, got)
		assert.Contains(t, buf.String(), "open page")
	})

	t.Run("logs close error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		next := &mock.Browser{
			CloseFn: func() error { return errors.New("boom") },
		}

		err := rod.NewLoggingBrowser(next, logger).Close()

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=boom")
	})
}
