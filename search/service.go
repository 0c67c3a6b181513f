// Package search orchestrates a query into cleaned page content: it runs the
// search provider, fans out per-URL fetches over a shared browser and
// assembles the response with its timing ledger.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sift"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of pages fetched at once.
const DefaultConcurrency = 2

// ProgressEvent reports progress during a search.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting fetch progress. It may be called
// from multiple goroutines.
type ProgressFunc func(event ProgressEvent)

var _ sift.SearchService = (*Service)(nil)

// Service implements sift.SearchService.
type Service struct {
	Searcher     sift.Searcher
	Fetcher      sift.ContentFetcher
	TokenCounter sift.TokenCounter
	Concurrency  int
	Progress     ProgressFunc
	Logger       *slog.Logger
}

// fetchResult holds the outcome of processing a single item.
type fetchResult struct {
	position int
	item     *sift.SearchItem
}

// Search resolves query and retrieves the content of every result. It
// never fails and never panics: upstream errors yield an empty Data and a
// panic yields an empty Data with the timing recorded so far.
func (s *Service) Search(ctx context.Context, query string, opts sift.SearchOptions) (resp *sift.SearchResponse) {
	opts = opts.WithDefaults()
	ledger := sift.NewTimingLedger()
	begin := time.Now()

	resp = &sift.SearchResponse{
		ID:    uuid.NewString(),
		Query: query,
		Data:  []*sift.SearchItem{},
	}
	logger := s.logger().With("id", resp.ID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("search panicked", "panic", r)
			resp.Data = []*sift.SearchItem{}
		}
		ledger.Record(sift.StageTotal, time.Since(begin))
		resp.Timing = ledger.Timing()
	}()

	done := ledger.Track(sift.StageSearch)
	items, err := s.Searcher.Search(ctx, query, opts.Limit)
	done()
	if err != nil {
		logger.Error("search failed", "query", query, "code", sift.ErrorCode(err), "err", err)
		items = nil
	}
	items = validItems(items)
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	if len(items) == 0 {
		ledger.Record(sift.StageContent, 0)
		return resp
	}

	done = ledger.Track(sift.StageContent)
	results := s.fetchAll(ctx, items, opts, ledger, logger)
	done()

	for _, item := range results {
		if item == nil || !item.HasContent() {
			continue
		}
		resp.Data = append(resp.Data, item)
	}
	logger.Info("search complete",
		"query", query,
		"results", len(items),
		"items", len(resp.Data),
	)
	return resp
}

// fetchAll fetches every item under the concurrency limit and returns the
// enriched items in their original positions. A slot is nil when the item
// could not be processed.
func (s *Service) fetchAll(ctx context.Context, items []*sift.SearchItem, opts sift.SearchOptions, ledger *sift.TimingLedger, logger *slog.Logger) []*sift.SearchItem {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(items)
	resultCh := make(chan fetchResult, total)
	var completed atomic.Int64

	s.progress(ProgressEvent{Type: ProgressStarted, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, item := range items {
			g.Go(func() error {
				resultCh <- fetchResult{
					position: i,
					item:     s.process(gctx, item, opts, ledger, logger),
				}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]*sift.SearchItem, total)
	for result := range resultCh {
		n := int(completed.Add(1))
		results[result.position] = result.item

		typ := ProgressCompleted
		if result.item == nil || !result.item.HasContent() {
			typ = ProgressFailed
		}
		s.progress(ProgressEvent{
			Type:      typ,
			Completed: n,
			Total:     total,
			URL:       items[result.position].URL,
		})
	}

	s.progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return results
}

// process enriches a single item. The returned item is a copy; the input
// is never mutated. A panic in any stage yields nil.
func (s *Service) process(ctx context.Context, in *sift.SearchItem, opts sift.SearchOptions, ledger *sift.TimingLedger, logger *slog.Logger) (out *sift.SearchItem) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("fetch panicked", "url", in.URL, "panic", fmt.Sprint(r))
			out = nil
		}
	}()

	content := s.Fetcher.FetchContent(ctx, in.URL, opts.Timeout, ledger)
	if content.Empty() {
		return nil
	}

	item := *in
	item.HTML = content.HTML
	item.Markdown = content.Markdown
	item.Extraction = content.Extraction
	report := content.Obstacles
	item.Obstacles = &report
	if item.Title == "" && content.Extraction != nil {
		item.Title = content.Extraction.Title
	}

	if opts.MaxTokens > 0 && s.TokenCounter != nil && item.Markdown != "" {
		done := ledger.Track(sift.StageKey(in.URL, sift.StageTrim))
		md, tokens, err := sift.TrimToTokens(ctx, s.TokenCounter, item.Markdown, opts.MaxTokens)
		done()
		if err != nil {
			logger.Warn("token trimming failed", "url", in.URL, "err", err)
		}
		item.Markdown = md
		item.Tokens = tokens
	}

	if item.Markdown != "" {
		item.ContentHash = computeHash(item.Markdown)
	}
	return &item
}

func (s *Service) progress(event ProgressEvent) {
	if s.Progress != nil {
		s.Progress(event)
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}

// validItems drops nil items and items without a URL.
func validItems(items []*sift.SearchItem) []*sift.SearchItem {
	out := items[:0:0]
	for _, item := range items {
		if item != nil && item.URL != "" {
			out = append(out, item)
		}
	}
	return out
}

// computeHash returns the xxhash64 hex digest of content.
func computeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
