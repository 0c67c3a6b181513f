package chromedp

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/sift"
)

var (
	_ sift.Page    = (*Page)(nil)
	_ sift.Element = (*Element)(nil)
)

const (
	textJS  = `function() { return this.innerText || this.textContent || ""; }`
	clickJS = `function() { this.click(); }`
)

// Page is a single Chrome tab.
type Page struct {
	ctx     context.Context
	cancel  context.CancelFunc
	release func()
	once    sync.Once
}

// run executes actions on the tab, bounded by the caller's ctx.
// Canceling ctx aborts the actions without closing the tab.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// SetUserAgent overrides the tab's user agent.
func (p *Page) SetUserAgent(ua string) error {
	return chromedp.Run(p.ctx, emulation.SetUserAgentOverride(ua))
}

// SetViewport sets the tab's device metrics.
func (p *Page) SetViewport(width, height int) error {
	return chromedp.Run(p.ctx, emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false))
}

// BlockResources pauses every request through the Fetch domain and fails
// the ones whose resource type satisfies block.
func (p *Page) BlockResources(block sift.BlockFunc) error {
	chromedp.ListenTarget(p.ctx, func(ev any) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(p.ctx)
			if c == nil || c.Target == nil {
				return
			}
			ectx := cdp.WithExecutor(p.ctx, c.Target)
			if block(sift.ResourceType(e.ResourceType)) {
				_ = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
				return
			}
			_ = fetch.ContinueRequest(e.RequestID).Do(ectx)
		}()
	})
	if err := chromedp.Run(p.ctx, fetch.Enable()); err != nil {
		return fmt.Errorf("enabling request interception: %w", err)
	}
	return nil
}

// Navigate loads url and waits until the body is ready. chromedp's Navigate
// returns on the load event, which is later than DOMContentLoaded.
func (p *Page) Navigate(ctx context.Context, url string) error {
	err := p.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Elements returns the nodes currently matching selector without waiting
// for any to appear.
func (p *Page) Elements(ctx context.Context, selector string) ([]sift.Element, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	out := make([]sift.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{page: p, ctx: ctx, node: n})
	}
	return out, nil
}

// HTML returns the outer HTML of the document element.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close closes the tab. Repeated calls are no-ops.
func (p *Page) Close() error {
	var err error
	p.once.Do(func() {
		err = chromedp.Cancel(p.ctx)
		p.cancel()
		p.release()
	})
	return err
}

// Element is a DOM node within a tab.
type Element struct {
	page *Page
	ctx  context.Context
	node *cdp.Node
}

// Text returns the node's rendered text.
func (e *Element) Text() (string, error) {
	var text string
	err := e.page.run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, textJS, &text)
	}))
	return text, err
}

// Click dispatches a DOM click on the node.
func (e *Element) Click() error {
	return e.page.run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, clickJS, nil)
	}))
}
