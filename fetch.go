package sift

import (
	"context"
	"time"
)

// Content is what the per-URL pipeline retrieved for a page. HTML is the
// extracted content fragment, not the full captured document.
type Content struct {
	HTML       string
	Markdown   string
	Extraction *Extraction
	Obstacles  ObstacleReport
}

// Empty reports whether nothing usable was retrieved.
func (c Content) Empty() bool {
	return c.HTML == "" && c.Markdown == ""
}

// ContentFetcher runs the per-URL pipeline.
type ContentFetcher interface {
	// FetchContent never fails. Internal errors produce an empty Content.
	// Stage durations are recorded into ledger under a URL-derived prefix.
	FetchContent(ctx context.Context, url string, timeout time.Duration, ledger *TimingLedger) Content
}

// ObstacleReport summarizes the overlay dismissal pass on a page.
type ObstacleReport struct {
	SelectorClicks int             `json:"selectorClicks"`
	TextClicks     int             `json:"textClicks"`
	FailedClicks   int             `json:"failedClicks"`
	Platform       ConsentPlatform `json:"platform,omitempty"`
}

// Clicks returns the number of successful clicks.
func (r ObstacleReport) Clicks() int {
	return r.SelectorClicks + r.TextClicks
}

// ObstacleHandler dismisses consent banners and popups on a page.
type ObstacleHandler interface {
	// HandleObstacles is best effort and never fails.
	HandleObstacles(ctx context.Context, page Page) ObstacleReport
}

// ConsentPlatform identifies a consent management platform.
type ConsentPlatform string

// ConsentPlatform constants.
const (
	ConsentUnknown      ConsentPlatform = ""
	ConsentOneTrust     ConsentPlatform = "onetrust"
	ConsentDidomi       ConsentPlatform = "didomi"
	ConsentCookiebot    ConsentPlatform = "cookiebot"
	ConsentQuantcast    ConsentPlatform = "quantcast"
	ConsentTrustArc     ConsentPlatform = "trustarc"
	ConsentAxeptio      ConsentPlatform = "axeptio"
	ConsentUsercentrics ConsentPlatform = "usercentrics"
	ConsentSirdata      ConsentPlatform = "sirdata"
)

// ConsentDetector identifies the consent platform embedded in a page.
type ConsentDetector interface {
	// Detect returns ConsentUnknown when no known platform is found.
	Detect(html string) ConsentPlatform
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	Wait(ctx context.Context, domain string) error
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// HTMLFetcher retrieves page markup without a browser. JavaScript is not
// executed.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}
