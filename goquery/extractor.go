// Package goquery implements heuristic HTML processing on top of
// PuerkitoBio/goquery: main-content extraction and consent platform
// detection.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sift"
)

// Ensure Extractor implements sift.Extractor at compile time.
var _ sift.Extractor = (*Extractor)(nil)

// Default extraction thresholds.
const (
	DefaultMinTextLength = 300
	DefaultMinRatio      = 0.3
)

// ContentSelectors are tried in order when looking for the main content
// element.
var ContentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".story-body",
	".content",
	"#content",
	".post",
	"#main",
}

// StructuralSelectors are removed from the body when no content selector
// qualifies.
var StructuralSelectors = []string{
	"header",
	"footer",
	"nav",
	"aside",
	`[role="navigation"]`,
	`[role="banner"]`,
	`[role="contentinfo"]`,
	`[role="complementary"]`,
	".sidebar",
	"#sidebar",
	".ad",
	".ads",
	".advert",
	".advertisement",
	`[id^="google_ads"]`,
	`[class*="cookie"]`,
	`[id*="cookie"]`,
	`[class*="consent"]`,
	`[id*="consent"]`,
	".popup",
	".modal",
	".overlay",
	"#comments",
	".comments",
	".comment-section",
}

// hiddenSelector matches elements that carry no visible text.
const hiddenSelector = "script, style, noscript, template"

// Extractor selects the main content region of a page using a fixed
// selector list and text-length heuristics.
type Extractor struct {
	minTextLength int
	minRatio      float64
	selectors     []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinTextLength sets the minimum text length (in characters) a
// selector match must exceed. Defaults to DefaultMinTextLength.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) {
		e.minTextLength = n
	}
}

// WithMinRatio sets the minimum share of the body text a selector match
// must hold. Defaults to DefaultMinRatio.
func WithMinRatio(r float64) Option {
	return func(e *Extractor) {
		e.minRatio = r
	}
}

// WithSelectors replaces the content selector list.
func WithSelectors(selectors []string) Option {
	return func(e *Extractor) {
		e.selectors = selectors
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		minTextLength: DefaultMinTextLength,
		minRatio:      DefaultMinRatio,
		selectors:     ContentSelectors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the main content of rawHTML. Unparseable input and pages
// without a body are returned unmodified as FallbackRaw.
func (e *Extractor) Extract(rawHTML string) (*sift.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sift.Errorf(sift.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return sift.RawExtraction(rawHTML), nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(hiddenSelector).Remove()

	body := doc.Find("body").First()
	bodyLen := textLength(body)
	if body.Length() == 0 || (bodyLen == 0 && body.Children().Length() == 0) {
		return sift.RawExtraction(rawHTML), nil
	}

	if result := e.bySelector(body, bodyLen); result != nil {
		result.Title = title
		return result, nil
	}

	clone := body.Clone()
	removed := 0
	for _, sel := range StructuralSelectors {
		matches := clone.Find(sel)
		removed += matches.Length()
		matches.Remove()
	}

	cleaned, err := goquery.OuterHtml(clone)
	if err != nil {
		return sift.RawExtraction(rawHTML), nil
	}

	return &sift.Extraction{
		Method:  sift.FallbackCleaned,
		Removed: removed,
		TextLen: textLength(clone),
		Title:   title,
		HTML:    cleaned,
	}, nil
}

// bySelector returns the first element, in selector priority order and then
// document order, that passes both thresholds.
func (e *Extractor) bySelector(body *goquery.Selection, bodyLen int) *sift.Extraction {
	if bodyLen == 0 {
		return nil
	}
	for _, sel := range e.selectors {
		var result *sift.Extraction
		body.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			n := textLength(s)
			ratio := float64(n) / float64(bodyLen)
			if n <= e.minTextLength || ratio < e.minRatio {
				return true
			}
			html, err := goquery.OuterHtml(s)
			if err != nil {
				return true
			}
			result = &sift.Extraction{
				Method:   sift.ExtractedBySelector,
				Selector: sel,
				Ratio:    ratio,
				TextLen:  n,
				HTML:     html,
			}
			return false
		})
		if result != nil {
			return result
		}
	}
	return nil
}

// textLength returns the number of characters of s's text with whitespace
// runs collapsed to a single space.
func textLength(s *goquery.Selection) int {
	return utf8.RuneCountInString(strings.Join(strings.Fields(s.Text()), " "))
}
