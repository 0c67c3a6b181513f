// Package rod implements sift.Browser with go-rod/rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/sift"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

var _ sift.Browser = (*BrowserManager)(nil)

// BrowserManager owns a single headless Chrome process and hands out page
// contexts from it. The browser is launched on the first NewPage call and
// relaunched on demand after Close.
//
// Chrome's memory baseline creeps up across pages, so after maxPages pages
// the process is replaced. Replacement waits until no page is open.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *session
	served   int64 // pages handed out by current
	maxPages int64
	bin      string
	headless bool

	open atomic.Int64
}

// session is one running Chrome process and the rod connection to it.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (s *session) close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBin sets the path of the Chrome binary. By default rod looks up a
// local install and downloads one if none is found.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithHeadless toggles headless mode. Defaults to true.
func WithHeadless(headless bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = headless
	}
}

// NewBrowserManager creates a new BrowserManager. No browser is started
// until the first call to NewPage.
func NewBrowserManager(opts ...ManagerOption) *BrowserManager {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

// NewPage opens a new page context, launching the browser if needed.
// The returned page must be closed by the caller.
func (bm *BrowserManager) NewPage(ctx context.Context) (sift.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := bm.reserve()
	if err != nil {
		return nil, err
	}
	release := func() { bm.open.Add(-1) }

	p, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		release()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return newPage(p, release), nil
}

// reserve counts a page against the running browser, starting or replacing
// the process first when needed.
func (bm *BrowserManager) reserve() (*rod.Browser, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	switch {
	case bm.current == nil:
		s, err := bm.launch()
		if err != nil {
			return nil, err
		}
		bm.current, bm.served = s, 0
	case bm.served >= bm.maxPages && bm.open.Load() == 0:
		// A failed relaunch keeps the old process serving.
		if s, err := bm.launch(); err == nil {
			_ = bm.current.close()
			bm.current, bm.served = s, 0
		}
	}

	bm.served++
	bm.open.Add(1)
	return bm.current.browser, nil
}

// Launched reports whether a browser process is currently running.
func (bm *BrowserManager) Launched() bool {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.current != nil
}

// OpenPages returns the number of pages handed out and not yet closed.
func (bm *BrowserManager) OpenPages() int {
	return int(bm.open.Load())
}

// Close terminates the browser. Close is safe to call multiple times or
// before any page was opened. A later NewPage launches a new browser.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current == nil {
		return nil
	}
	err := bm.current.close()
	bm.current, bm.served = nil, 0
	return err
}

// launch starts Chrome with flags that keep background tabs responsive in
// a container and connects to it.
func (bm *BrowserManager) launch() (*session, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("window-size", fmt.Sprintf("%d,%d", sift.ViewportWidth, sift.ViewportHeight)).
		NoSandbox(true).
		Leakless(true).
		Headless(bm.headless)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &session{browser: b, launcher: l}, nil
}

// LauncherPID returns the process ID of the browser launcher, or 0 when no
// browser is running.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
