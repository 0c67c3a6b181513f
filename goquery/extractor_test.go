package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements sift.Extractor at compile time.
var _ sift.Extractor = (*goquery.Extractor)(nil)

// paragraph returns roughly n characters of prose.
func paragraph(n int) string {
	const sentence = "Ownership is a set of rules that govern how a program manages memory. "
	return strings.TrimSpace(strings.Repeat(sentence, n/len(sentence)+1))
}

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := goquery.NewExtractor()
	_, err := ext.Extract("   ")

	require.Error(t, err)
	assert.Equal(t, sift.EINVALID, sift.ErrorCode(err))
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("selects article when it dominates the body", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Rust Ownership</title></head><body>
<nav><a href="/">Home</a><a href="/blog">Blog</a></nav>
<article><h1>Ownership</h1><p>` + paragraph(800) + `</p></article>
<footer>Copyright</footer>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.ExtractedBySelector, result.Method)
		assert.Equal(t, "article", result.Selector)
		assert.Greater(t, result.Ratio, 0.3)
		assert.Greater(t, result.TextLen, 300)
		assert.Equal(t, "Rust Ownership", result.Title)
		assert.True(t, strings.HasPrefix(result.HTML, "<article>"))
		assert.NotContains(t, result.HTML, "Copyright")
	})

	t.Run("respects selector priority", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="entry-content"><p>` + paragraph(600) + `</p></div>
<main><p>` + paragraph(600) + `</p></main>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "main", result.Selector)
	})

	t.Run("skips selector whose text is too short", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<article><p>Short teaser.</p></article>
<div id="content"><p>` + paragraph(500) + `</p></div>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.ExtractedBySelector, result.Method)
		assert.Equal(t, "#content", result.Selector)
	})

	t.Run("skips element below body ratio", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="post">` + paragraph(400) + `</div>
<div class="other">` + paragraph(2000) + `</div>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.FallbackCleaned, result.Method)
	})

	t.Run("checks later matches of the same selector", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<article>Related: other story</article>
<article><p>` + paragraph(800) + `</p></article>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "article", result.Selector)
		assert.NotContains(t, result.HTML, "Related")
	})

	t.Run("ignores script text when measuring", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<script>` + strings.Repeat("var x = 1;", 500) + `</script>
<article><p>` + paragraph(400) + `</p></article>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.ExtractedBySelector, result.Method)
		assert.InDelta(t, 1.0, result.Ratio, 0.01)
	})

	t.Run("falls back to cleaned body", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<header><h1>Site name</h1></header>
<nav><a href="/">Home</a></nav>
<div class="body-text"><p>Useful text that is not in a known container.</p></div>
<aside>Related links</aside>
<div class="cookie-banner">We use cookies</div>
<div id="comments">First!</div>
<footer>Copyright</footer>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.FallbackCleaned, result.Method)
		assert.Equal(t, 6, result.Removed)
		assert.Contains(t, result.HTML, "Useful text")
		assert.NotContains(t, result.HTML, "Site name")
		assert.NotContains(t, result.HTML, "Related links")
		assert.NotContains(t, result.HTML, "We use cookies")
		assert.NotContains(t, result.HTML, "First!")
		assert.NotContains(t, result.HTML, "Copyright")
	})

	t.Run("returns raw input when body is empty", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Nothing</title></head></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.FallbackRaw, result.Method)
		assert.Equal(t, html, result.HTML)
	})

	t.Run("thresholds are configurable", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>A short but complete article.</p></article><p>tail</p></body></html>`

		result, err := goquery.NewExtractor(
			goquery.WithMinTextLength(10),
			goquery.WithMinRatio(0.5),
		).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, sift.ExtractedBySelector, result.Method)
		assert.Equal(t, "article", result.Selector)
	})

	t.Run("custom selector list", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="story">` + paragraph(500) + `</div></body></html>`

		result, err := goquery.NewExtractor(goquery.WithSelectors([]string{".story"})).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, ".story", result.Selector)
	})
}
