package goquery_test

import (
	"testing"

	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/goquery"
	"github.com/stretchr/testify/assert"
)

// Ensure ConsentDetector implements sift.ConsentDetector at compile time.
var _ sift.ConsentDetector = (*goquery.ConsentDetector)(nil)

func TestConsentDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("detects OneTrust from banner container", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="onetrust-consent-sdk"><div id="onetrust-banner-sdk"></div></div></body></html>`

		assert.Equal(t, sift.ConsentOneTrust, goquery.NewConsentDetector().Detect(html))
	})

	t.Run("detects Didomi from host element", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="didomi-host"></div><p>Article</p></body></html>`

		assert.Equal(t, sift.ConsentDidomi, goquery.NewConsentDetector().Detect(html))
	})

	t.Run("detects Cookiebot from dialog", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="CybotCookiebotDialog"></div></body></html>`

		assert.Equal(t, sift.ConsentCookiebot, goquery.NewConsentDetector().Detect(html))
	})

	t.Run("detects Axeptio from script source", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script async src="https://static.axept.io/sdk.js"></script></head><body></body></html>`

		assert.Equal(t, sift.ConsentAxeptio, goquery.NewConsentDetector().Detect(html))
	})

	t.Run("script match is case insensitive", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script src="https://cdn.cookielaw.org/scripttemplates/OtSDKStub.js"></script></head><body></body></html>`

		assert.Equal(t, sift.ConsentOneTrust, goquery.NewConsentDetector().Detect(html))
	})

	t.Run("container wins over script source", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script src="https://sdk.privacy-center.org/didomi.js"></script></head>
<body><div id="qc-cmp2-ui"></div></body></html>`

		assert.Equal(t, sift.ConsentQuantcast, goquery.NewConsentDetector().Detect(html))
	})

	t.Run("returns unknown for plain page", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script src="/app.js"></script></head><body><p>Hello</p></body></html>`

		assert.Equal(t, sift.ConsentUnknown, goquery.NewConsentDetector().Detect(html))
	})
}
