package mock

import "github.com/fwojciec/sift"

// Compile-time interface verification.
var (
	_ sift.Extractor  = (*Extractor)(nil)
	_ sift.Normalizer = (*Normalizer)(nil)
)

// Extractor is a mock implementation of sift.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sift.Extraction, error)
}

func (e *Extractor) Extract(html string) (*sift.Extraction, error) {
	return e.ExtractFn(html)
}

// Normalizer is a mock implementation of sift.Normalizer.
type Normalizer struct {
	NormalizeFn func(html string) (string, error)
}

func (n *Normalizer) Normalize(html string) (string, error) {
	return n.NormalizeFn(html)
}
