package sift

import "context"

// Viewport and user agent applied to every page context.
const (
	ViewportWidth  = 1366
	ViewportHeight = 900

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// ResourceType is the type of a network request as reported by the
// browser (DevTools protocol naming).
type ResourceType string

// ResourceType constants.
const (
	ResourceDocument   ResourceType = "Document"
	ResourceStylesheet ResourceType = "Stylesheet"
	ResourceImage      ResourceType = "Image"
	ResourceMedia      ResourceType = "Media"
	ResourceFont       ResourceType = "Font"
	ResourceScript     ResourceType = "Script"
	ResourceXHR        ResourceType = "XHR"
	ResourceFetch      ResourceType = "Fetch"
	ResourceWebSocket  ResourceType = "WebSocket"
	ResourceOther      ResourceType = "Other"
)

// BlockFunc decides whether a request of the given resource type is aborted.
type BlockFunc func(ResourceType) bool

// DefaultShouldBlock aborts images, media, fonts and websockets. Everything
// else proceeds unmodified.
func DefaultShouldBlock(rt ResourceType) bool {
	switch rt {
	case ResourceImage, ResourceMedia, ResourceFont, ResourceWebSocket:
		return true
	}
	return false
}

// Browser hands out isolated page contexts backed by one shared browser
// process. The process is launched lazily on the first NewPage call.
type Browser interface {
	// NewPage opens a new page context. The caller owns the page and must
	// Close it.
	NewPage(ctx context.Context) (Page, error)

	// Close terminates the browser process. Close is safe to call multiple
	// times or before any page was opened.
	Close() error
}

// Page is an isolated page context (tab) owned by a single fetch.
type Page interface {
	SetUserAgent(ua string) error
	SetViewport(width, height int) error

	// BlockResources installs request interception using the predicate.
	BlockResources(block BlockFunc) error

	// Navigate loads url and waits for the DOM to be ready.
	Navigate(ctx context.Context, url string) error

	// Elements returns all elements matching the CSS selector.
	// No match is not an error.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// HTML returns the full rendered document markup.
	HTML(ctx context.Context) (string, error)

	Close() error
}

// Element is a handle to a DOM element within a Page.
type Element interface {
	// Text returns the element's visible text.
	Text() (string, error)

	// Click dispatches a click on the element.
	Click() error
}
