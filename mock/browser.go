package mock

import (
	"context"

	"github.com/fwojciec/sift"
)

// Compile-time interface verification.
var (
	_ sift.Browser = (*Browser)(nil)
	_ sift.Page    = (*Page)(nil)
	_ sift.Element = (*Element)(nil)
)

// Browser is a mock implementation of sift.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context) (sift.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context) (sift.Page, error) {
	return b.NewPageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Page is a mock implementation of sift.Page.
type Page struct {
	SetUserAgentFn   func(ua string) error
	SetViewportFn    func(width, height int) error
	BlockResourcesFn func(block sift.BlockFunc) error
	NavigateFn       func(ctx context.Context, url string) error
	ElementsFn       func(ctx context.Context, selector string) ([]sift.Element, error)
	HTMLFn           func(ctx context.Context) (string, error)
	CloseFn          func() error
}

func (p *Page) SetUserAgent(ua string) error {
	return p.SetUserAgentFn(ua)
}

func (p *Page) SetViewport(width, height int) error {
	return p.SetViewportFn(width, height)
}

func (p *Page) BlockResources(block sift.BlockFunc) error {
	return p.BlockResourcesFn(block)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) Elements(ctx context.Context, selector string) ([]sift.Element, error) {
	return p.ElementsFn(ctx, selector)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// Element is a mock implementation of sift.Element.
type Element struct {
	TextFn  func() (string, error)
	ClickFn func() error
}

func (e *Element) Text() (string, error) {
	return e.TextFn()
}

func (e *Element) Click() error {
	return e.ClickFn()
}
