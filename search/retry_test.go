package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("connection reset")
			}
			return "<html></html>", nil
		}

		html, err := search.FetchWithRetry(context.Background(), "https://example.com", fetch, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 2, calls)
	})

	t.Run("returns last error after all attempts", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", sift.Errorf(sift.EUNAVAILABLE, "status %d", 503)
		}

		_, err := search.FetchWithRetry(context.Background(), "https://example.com", fetch, nil, delays)

		require.Error(t, err)
		assert.Equal(t, sift.EUNAVAILABLE, sift.ErrorCode(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry not found", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", sift.Errorf(sift.ENOTFOUND, "page not found")
		}

		_, err := search.FetchWithRetry(context.Background(), "https://example.com", fetch, nil, delays)

		assert.Equal(t, sift.ENOTFOUND, sift.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}

		_, err := search.FetchWithRetry(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
	})
}
