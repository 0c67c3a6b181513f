// Package trafilatura implements sift.Extractor with markusmobius/go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/sift"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sift.Extractor at compile time.
var _ sift.Extractor = (*Extractor)(nil)

// Selector reported for content found by trafilatura.
const Selector = "trafilatura"

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Fallback extractors (readability
// and dom-distiller) bundled with trafilatura are enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract processes rendered HTML and returns the main content.
// When nothing is extracted the input is returned as FallbackRaw.
func (e *Extractor) Extract(rawHTML string) (*sift.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sift.Errorf(sift.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	if result.ContentNode == nil {
		raw := sift.RawExtraction(rawHTML)
		raw.Title = result.Metadata.Title
		return raw, nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &sift.Extraction{
		Method:   sift.ExtractedBySelector,
		Selector: Selector,
		TextLen:  utf8.RuneCountInString(strings.Join(strings.Fields(result.ContentText), " ")),
		Title:    result.Metadata.Title,
		HTML:     contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
