// Package http implements sift services over HTTP: the Serper search
// client, a plain page fetcher and the JSON API server.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sift"
)

// Search client defaults.
const (
	DefaultSearchTimeout = 30 * time.Second
	DefaultEngine        = "google"
	DefaultCountry       = "fr"
	DefaultLanguage      = "fr"
)

// maxSearchResponseBytes caps how much of a search response is decoded.
const maxSearchResponseBytes = 4 << 20

// Ensure SearchClient implements sift.Searcher at compile time.
var _ sift.Searcher = (*SearchClient)(nil)

// SearchClient queries the Serper search API.
type SearchClient struct {
	client   *http.Client
	apiKey   string
	engine   string
	baseURL  string
	country  string
	language string
	timeout  time.Duration
}

// SearchOption configures a SearchClient.
type SearchOption func(*SearchClient)

// WithSearchTimeout sets the timeout for search requests.
// Defaults to DefaultSearchTimeout (30s) if not specified.
func WithSearchTimeout(d time.Duration) SearchOption {
	return func(c *SearchClient) {
		c.timeout = d
	}
}

// WithEngine sets the Serper engine subdomain. Defaults to "google".
func WithEngine(engine string) SearchOption {
	return func(c *SearchClient) {
		if engine != "" {
			c.engine = engine
		}
	}
}

// WithLocale sets the country (gl) and language (hl) parameters.
func WithLocale(country, language string) SearchOption {
	return func(c *SearchClient) {
		c.country = country
		c.language = language
	}
}

// WithBaseURL overrides the https://{engine}.serper.dev origin.
func WithBaseURL(u string) SearchOption {
	return func(c *SearchClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client. Its Timeout is replaced
// by the configured search timeout.
func WithHTTPClient(client *http.Client) SearchOption {
	return func(c *SearchClient) {
		c.client = client
	}
}

// NewSearchClient creates a new SearchClient. An empty apiKey is accepted;
// every Search call then fails with EUNAUTHORIZED.
func NewSearchClient(apiKey string, opts ...SearchOption) *SearchClient {
	c := &SearchClient{
		apiKey:   apiKey,
		engine:   DefaultEngine,
		country:  DefaultCountry,
		language: DefaultLanguage,
		timeout:  DefaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{}
	} else {
		clone := *c.client
		c.client = &clone
	}
	c.client.Timeout = c.timeout

	return c
}

// Endpoint returns the URL search requests are sent to.
func (c *SearchClient) Endpoint() string {
	if c.baseURL != "" {
		return c.baseURL + "/search"
	}
	return "https://" + c.engine + ".serper.dev/search"
}

type searchRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num"`
	Country  string `json:"gl"`
	Language string `json:"hl"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

type organicResult struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search sends the query to Serper and maps organic results to items.
// Results without a link and repeated links are skipped. At most limit
// items are returned; limit <= 0 means sift.DefaultLimit.
func (c *SearchClient) Search(ctx context.Context, query string, limit int) ([]*sift.SearchItem, error) {
	if c.apiKey == "" {
		return nil, sift.Errorf(sift.EUNAUTHORIZED, "search API key not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, sift.Errorf(sift.EINVALID, "empty search query")
	}
	if limit <= 0 {
		limit = sift.DefaultLimit
	}

	body, err := json.Marshal(searchRequest{
		Query:    query,
		Num:      limit,
		Country:  c.country,
		Language: c.language,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, sift.Errorf(sift.EUNAVAILABLE, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, sift.Errorf(sift.EUNAUTHORIZED, "search API rejected key: HTTP %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, sift.Errorf(sift.EUNAVAILABLE, "search API returned HTTP %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSearchResponseBytes)).Decode(&out); err != nil {
		return nil, sift.Errorf(sift.EUNAVAILABLE, "malformed search response: %v", err)
	}

	items := make([]*sift.SearchItem, 0, min(limit, len(out.Organic)))
	seen := make(map[string]bool, len(out.Organic))
	for _, r := range out.Organic {
		link := strings.TrimSpace(r.Link)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		items = append(items, &sift.SearchItem{
			URL:     link,
			Title:   strings.TrimSpace(r.Title),
			Snippet: strings.TrimSpace(r.Snippet),
		})
		if len(items) == limit {
			break
		}
	}

	return items, nil
}
