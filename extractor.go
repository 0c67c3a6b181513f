package sift

// ExtractionMethod identifies which path of the content extractor produced
// a result.
type ExtractionMethod string

// ExtractionMethod constants.
const (
	// ExtractedBySelector means a content selector matched an element that
	// met both the length and body-ratio thresholds.
	ExtractedBySelector ExtractionMethod = "selector"

	// FallbackCleaned means no selector qualified and the body was returned
	// with structural elements removed.
	FallbackCleaned ExtractionMethod = "cleaned"

	// FallbackRaw means the input was returned unmodified.
	FallbackRaw ExtractionMethod = "raw"
)

// Extraction is the outcome of main-content extraction.
type Extraction struct {
	Method ExtractionMethod `json:"method"`

	// Selector and Ratio are set for ExtractedBySelector.
	Selector string  `json:"selector,omitempty"`
	Ratio    float64 `json:"ratio,omitempty"`

	// Removed is the number of elements stripped for FallbackCleaned.
	Removed int `json:"removed,omitempty"`

	// TextLen is the visible text length of HTML, or its byte length for
	// FallbackRaw.
	TextLen int `json:"textLength"`

	Title string `json:"-"`
	HTML  string `json:"-"`
}

// RawExtraction wraps markup that was not processed by an extractor.
func RawExtraction(html string) *Extraction {
	return &Extraction{Method: FallbackRaw, HTML: html, TextLen: len(html)}
}

// Extractor selects the main-content region of a rendered page.
type Extractor interface {
	// Extract processes the rendered HTML and returns the main content
	// fragment together with the path that produced it.
	Extract(html string) (*Extraction, error)
}

// Normalizer converts an HTML fragment into clean markdown-flavoured text.
type Normalizer interface {
	Normalize(html string) (string, error)
}
