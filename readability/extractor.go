// Package readability implements sift.Extractor with go-shiori/go-readability.
package readability

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/sift"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sift.Extractor at compile time.
var _ sift.Extractor = (*Extractor)(nil)

// Selector reported for content found by readability scoring.
const Selector = "readability"

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes rendered HTML and returns the article content.
// When readability finds no article the input is returned as FallbackRaw.
func (e *Extractor) Extract(rawHTML string) (*sift.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sift.Errorf(sift.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if strings.TrimSpace(article.Content) == "" || text == "" {
		result := sift.RawExtraction(rawHTML)
		result.Title = article.Title
		return result, nil
	}

	return &sift.Extraction{
		Method:   sift.ExtractedBySelector,
		Selector: Selector,
		TextLen:  utf8.RuneCountInString(text),
		Title:    article.Title,
		HTML:     article.Content,
	}, nil
}
