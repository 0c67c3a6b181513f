// Package tiktoken counts tokens with OpenAI's BPE encodings. It is the
// offline alternative to the gemini counter for callers budgeting against
// GPT-family models.
package tiktoken

import (
	"context"
	"sync"

	"github.com/fwojciec/sift"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when the model has no registered encoding.
const DefaultEncoding = "cl100k_base"

var _ sift.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens with a tiktoken encoding.
type TokenCounter struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTokenCounter returns a counter for model. Unknown or empty models fall
// back to DefaultEncoding.
func NewTokenCounter(model string) (*TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(DefaultEncoding)
		if err != nil {
			return nil, sift.Errorf(sift.EUNAVAILABLE, "loading %s encoding: %v", DefaultEncoding, err)
		}
	}
	return &TokenCounter{enc: enc}, nil
}

// CountTokens counts the number of tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.enc.Encode(text, nil, nil)), nil
}
