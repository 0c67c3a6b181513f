package sift_test

import (
	"testing"
	"time"

	"github.com/fwojciec/sift"
	"github.com/stretchr/testify/assert"
)

func TestSearchOptions_WithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("fills zero values", func(t *testing.T) {
		t.Parallel()

		opts := sift.SearchOptions{}.WithDefaults()

		assert.Equal(t, 15*time.Second, opts.Timeout)
		assert.Equal(t, 5, opts.Limit)
		assert.Zero(t, opts.MaxTokens)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()

		opts := sift.SearchOptions{Timeout: time.Second, Limit: 3, MaxTokens: 500}.WithDefaults()

		assert.Equal(t, time.Second, opts.Timeout)
		assert.Equal(t, 3, opts.Limit)
		assert.Equal(t, 500, opts.MaxTokens)
	})
}

func TestSearchItem_HasContent(t *testing.T) {
	t.Parallel()

	assert.False(t, (&sift.SearchItem{URL: "https://a.example"}).HasContent())
	assert.True(t, (&sift.SearchItem{URL: "https://a.example", Markdown: "x"}).HasContent())
	assert.True(t, (&sift.SearchItem{URL: "https://a.example", HTML: "<p>x</p>"}).HasContent())
}

func TestDefaultShouldBlock(t *testing.T) {
	t.Parallel()

	for _, rt := range []sift.ResourceType{sift.ResourceImage, sift.ResourceMedia, sift.ResourceFont, sift.ResourceWebSocket} {
		assert.True(t, sift.DefaultShouldBlock(rt), rt)
	}
	for _, rt := range []sift.ResourceType{sift.ResourceDocument, sift.ResourceScript, sift.ResourceStylesheet, sift.ResourceXHR, sift.ResourceFetch, sift.ResourceOther} {
		assert.False(t, sift.DefaultShouldBlock(rt), rt)
	}
}

func TestContent_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, sift.Content{}.Empty())
	assert.False(t, sift.Content{Markdown: "text"}.Empty())
	assert.False(t, sift.Content{HTML: "<p>x</p>"}.Empty())
}

func TestObstacleReport_Clicks(t *testing.T) {
	t.Parallel()

	r := sift.ObstacleReport{SelectorClicks: 2, TextClicks: 1, FailedClicks: 4}

	assert.Equal(t, 3, r.Clicks())
}
