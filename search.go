package sift

import (
	"context"
	"time"
)

// Defaults for SearchOptions.
const (
	DefaultTimeout = 15 * time.Second
	DefaultLimit   = 5
)

// SearchItem is a single search result, enriched with the page content
// retrieved for it. URL is the unique key within a response.
type SearchItem struct {
	URL         string          `json:"url"`
	Title       string          `json:"title"`
	Snippet     string          `json:"snippet,omitempty"`
	Markdown    string          `json:"markdown,omitempty"`
	HTML        string          `json:"html,omitempty"`
	ContentHash string          `json:"contentHash,omitempty"`
	Tokens      int             `json:"tokens,omitempty"`
	Extraction  *Extraction     `json:"extraction,omitempty"`
	Obstacles   *ObstacleReport `json:"obstacles,omitempty"`
}

// HasContent reports whether the item carries any retrieved content.
func (i *SearchItem) HasContent() bool {
	return i.Markdown != "" || i.HTML != ""
}

// SearchResponse is the result of one search invocation. Data keeps the
// ranking order of the search provider.
type SearchResponse struct {
	ID     string        `json:"id"`
	Query  string        `json:"query"`
	Data   []*SearchItem `json:"data"`
	Timing Timing        `json:"timing"`
}

// SearchOptions configures a single search invocation.
type SearchOptions struct {
	// Timeout bounds each page navigation. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Limit bounds the number of search results. Defaults to DefaultLimit.
	Limit int

	// MaxTokens trims each item's markdown to at most this many tokens.
	// Zero disables trimming.
	MaxTokens int
}

// WithDefaults returns a copy of the options with zero values replaced by
// their defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MaxTokens < 0 {
		o.MaxTokens = 0
	}
	return o
}

// Searcher resolves a query into a ranked list of candidate items.
type Searcher interface {
	// Search returns at most limit items in ranking order.
	// Returns EUNAUTHORIZED if no API key is configured and EUNAVAILABLE
	// if the provider cannot be reached or returns an unusable response.
	Search(ctx context.Context, query string, limit int) ([]*SearchItem, error)
}

// SearchService runs the full query-to-content pipeline.
type SearchService interface {
	// Search never fails. Upstream and per-page errors degrade to fewer
	// (or zero) items in the returned response.
	Search(ctx context.Context, query string, opts SearchOptions) *SearchResponse
}
