// Package gemini counts tokens with the Gemini local tokenizer so output
// can be trimmed to a model's context budget without network calls.
package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/sift"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultModel is the model whose vocabulary is used when none is configured.
const DefaultModel = "gemini-2.5-flash"

var _ sift.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the Gemini tokenizer. It is safe for
// concurrent use.
type TokenCounter struct {
	mu    sync.Mutex
	tok   *tokenizer.LocalTokenizer
	model string
}

// NewTokenCounter creates a TokenCounter for the given model. An empty
// model selects DefaultModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, sift.Errorf(sift.EINVALID, "tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{tok: tok, model: model}, nil
}

// Model returns the model the counter was built for.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens counts the number of tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	tc.mu.Lock()
	result, err := tc.tok.CountTokens(contents, nil)
	tc.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("counting tokens: %w", err)
	}

	return int(result.TotalTokens), nil
}
