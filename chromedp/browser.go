// Package chromedp implements sift.Browser with chromedp/chromedp.
//
// It is an alternative to the rod package for environments where Chrome
// is already installed and rod's launcher is not wanted.
package chromedp

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/chromedp/chromedp"
	"github.com/fwojciec/sift"
)

// Ensure Browser implements sift.Browser at compile time.
var _ sift.Browser = (*Browser)(nil)

// Browser owns a single Chrome process driven over the DevTools protocol.
// The process starts on the first NewPage call; every page is a separate tab.
type Browser struct {
	execPath string
	headless bool

	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	openPages   atomic.Int64
}

// Option configures a Browser.
type Option func(*Browser)

// WithExecPath sets the Chrome binary. By default chromedp searches the
// usual install locations.
func WithExecPath(path string) Option {
	return func(b *Browser) {
		b.execPath = path
	}
}

// WithHeadless toggles headless mode. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(b *Browser) {
		b.headless = headless
	}
}

// NewBrowser creates a Browser without starting Chrome.
func NewBrowser(opts ...Option) *Browser {
	b := &Browser{headless: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewPage opens a new tab, starting Chrome if it is not running.
func (b *Browser) NewPage(ctx context.Context) (sift.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserCtx, err := b.acquire()
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		b.openPages.Add(-1)
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	return &Page{
		ctx:     tabCtx,
		cancel:  cancel,
		release: func() { b.openPages.Add(-1) },
	}, nil
}

func (b *Browser) acquire() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx == nil {
		if err := b.launch(); err != nil {
			return nil, err
		}
	}
	b.openPages.Add(1)
	return b.browserCtx, nil
}

// launch starts Chrome. Must be called with mu held.
func (b *Browser) launch() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("window-size", strconv.Itoa(sift.ViewportWidth)+","+strconv.Itoa(sift.ViewportHeight)),
		chromedp.UserAgent(sift.DefaultUserAgent),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// The first Run on the browser context starts the process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("launching browser: %w", err)
	}

	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.cancel = cancel
	return nil
}

// Launched reports whether Chrome is currently running.
func (b *Browser) Launched() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.browserCtx != nil
}

// OpenPages returns the number of tabs handed out and not yet closed.
func (b *Browser) OpenPages() int {
	return int(b.openPages.Load())
}

// Close shuts Chrome down. Close is safe to call multiple times or before
// any page was opened; a later NewPage starts a new process.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx == nil {
		return nil
	}
	err := chromedp.Cancel(b.browserCtx)
	b.cancel()
	b.allocCancel()
	b.browserCtx = nil
	b.cancel = nil
	b.allocCancel = nil
	return err
}
