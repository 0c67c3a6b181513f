package main_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/sift"
	main "github.com/fwojciec/sift/cmd/sift"
	"github.com/fwojciec/sift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvironment(t *testing.T) {
	t.Run("rejects unknown browser from environment", func(t *testing.T) {
		t.Setenv("SIFT_BROWSER", "firefox")

		m := &main.Main{Service: &mock.SearchService{}}
		err := m.Run(context.Background(), []string{"search", "q"}, io.Discard, io.Discard)

		require.Error(t, err)
	})

	t.Run("reads log level from environment", func(t *testing.T) {
		t.Setenv("SIFT_LOG_LEVEL", "debug")

		m := &main.Main{
			Service: &mock.SearchService{
				SearchFn: func(ctx context.Context, query string, opts sift.SearchOptions) *sift.SearchResponse {
					return &sift.SearchResponse{Query: query, Data: []*sift.SearchItem{}}
				},
			},
		}
		err := m.Run(context.Background(), []string{"search", "q"}, io.Discard, io.Discard)

		assert.NoError(t, err)
	})

	t.Run("reads extractor thresholds from environment", func(t *testing.T) {
		t.Setenv("SIFT_MIN_TEXT_LENGTH", "120")
		t.Setenv("SIFT_MIN_RATIO", "0.5")

		var got main.Config
		m := main.NewMain()
		m.WireFn = func(cfg main.Config, logger *slog.Logger, p main.Pipeline) error {
			got = cfg
			m.Service = &mock.SearchService{
				SearchFn: func(ctx context.Context, query string, opts sift.SearchOptions) *sift.SearchResponse {
					return &sift.SearchResponse{Query: query, Data: []*sift.SearchItem{}}
				},
			}
			return nil
		}
		err := m.Run(context.Background(), []string{"search", "q"}, io.Discard, io.Discard)

		require.NoError(t, err)
		assert.Equal(t, 120, got.MinTextLength)
		assert.InDelta(t, 0.5, got.MinRatio, 1e-9)
	})
}
