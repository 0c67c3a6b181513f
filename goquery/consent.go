package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sift"
)

// Ensure ConsentDetector implements sift.ConsentDetector at compile time.
var _ sift.ConsentDetector = (*ConsentDetector)(nil)

// consentMarker lists the DOM containers and script sources that identify a
// consent management platform. Banner containers usually stay in the DOM
// after dismissal, hidden, so detection works on post-dismissal markup.
type consentMarker struct {
	platform  sift.ConsentPlatform
	selectors []string
	scripts   []string
}

var consentMarkers = []consentMarker{
	{
		platform:  sift.ConsentOneTrust,
		selectors: []string{"#onetrust-consent-sdk", "#onetrust-banner-sdk"},
		scripts:   []string{"cookielaw.org", "otsdkstub", "onetrust"},
	},
	{
		platform:  sift.ConsentDidomi,
		selectors: []string{"#didomi-host", "#didomi-notice"},
		scripts:   []string{"didomi"},
	},
	{
		platform:  sift.ConsentCookiebot,
		selectors: []string{"#CybotCookiebotDialog"},
		scripts:   []string{"cookiebot"},
	},
	{
		platform:  sift.ConsentQuantcast,
		selectors: []string{"#qc-cmp2-ui", ".qc-cmp2-container"},
		scripts:   []string{"quantcast", "choice.js"},
	},
	{
		platform:  sift.ConsentTrustArc,
		selectors: []string{"#truste-consent-track", "#consent_blackbar"},
		scripts:   []string{"trustarc", "truste.com"},
	},
	{
		platform:  sift.ConsentAxeptio,
		selectors: []string{"#axeptio_overlay", ".axeptio_mount"},
		scripts:   []string{"axept.io"},
	},
	{
		platform:  sift.ConsentUsercentrics,
		selectors: []string{"#usercentrics-root", "#usercentrics-cmp-ui"},
		scripts:   []string{"usercentrics"},
	},
	{
		platform:  sift.ConsentSirdata,
		selectors: []string{"#sd-cmp"},
		scripts:   []string{"sddan.com", "sirdata"},
	},
}

// ConsentDetector identifies consent management platforms from HTML.
// It checks for platform-specific banner containers first, then for
// script sources loaded from the platform's domain.
type ConsentDetector struct{}

// NewConsentDetector creates a new ConsentDetector.
func NewConsentDetector() *ConsentDetector {
	return &ConsentDetector{}
}

// Detect analyzes HTML and returns the identified platform.
// Returns ConsentUnknown if no platform can be determined.
func (d *ConsentDetector) Detect(html string) sift.ConsentPlatform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sift.ConsentUnknown
	}

	// Containers are more specific than script URLs.
	for _, m := range consentMarkers {
		for _, sel := range m.selectors {
			if doc.Find(sel).Length() > 0 {
				return m.platform
			}
		}
	}

	var sources []string
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			sources = append(sources, strings.ToLower(src))
		}
	})
	for _, m := range consentMarkers {
		for _, marker := range m.scripts {
			for _, src := range sources {
				if strings.Contains(src, marker) {
					return m.platform
				}
			}
		}
	}

	return sift.ConsentUnknown
}
