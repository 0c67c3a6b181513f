package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/sift"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ sift.Page    = (*Page)(nil)
	_ sift.Element = (*Element)(nil)
)

// Page adapts a rod page to sift.Page.
type Page struct {
	page    *rod.Page
	router  *rod.HijackRouter
	release func()
	once    sync.Once
}

func newPage(p *rod.Page, release func()) *Page {
	return &Page{page: p, release: release}
}

// SetUserAgent overrides the user agent for every request the page makes.
func (p *Page) SetUserAgent(ua string) error {
	return p.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua})
}

// SetViewport sets the page's device metrics.
func (p *Page) SetViewport(width, height int) error {
	return p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

// BlockResources aborts every request whose resource type satisfies block.
// Other requests continue untouched.
func (p *Page) BlockResources(block sift.BlockFunc) error {
	router := p.page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		if block(sift.ResourceType(h.Request.Type())) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return fmt.Errorf("hijacking requests: %w", err)
	}
	go router.Run()
	p.router = router
	return nil
}

// Navigate loads url and waits for DOMContentLoaded or ctx expiry.
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	wait()
	return ctx.Err()
}

// Elements returns the elements currently matching selector without waiting
// for any to appear.
func (p *Page) Elements(ctx context.Context, selector string) ([]sift.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]sift.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

// HTML returns the serialized document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close stops request interception and closes the page. It releases the
// page slot exactly once even if called repeatedly.
func (p *Page) Close() error {
	var err error
	p.once.Do(func() {
		if p.router != nil {
			_ = p.router.Stop()
		}
		err = p.page.Close()
		p.release()
	})
	return err
}

// Element adapts a rod element to sift.Element.
type Element struct {
	el *rod.Element
}

// Text returns the element's visible text.
func (e *Element) Text() (string, error) {
	return e.el.Text()
}

// Click dispatches a DOM click on the element. Synthesized clicks work on
// elements hidden behind overlays, which mouse-based clicks do not.
func (e *Element) Click() error {
	_, err := e.el.Eval(`() => this.click()`)
	return err
}
