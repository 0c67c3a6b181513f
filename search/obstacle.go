package search

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sift"
)

// Obstacle handling defaults.
const (
	DefaultClickDelay      = 500 * time.Millisecond
	DefaultObstacleTimeout = 5 * time.Second
	MaxButtonTextLength    = 40
)

// DismissSelectors are dismiss controls of known consent platforms and
// common generic overlays, tried in order.
var DismissSelectors = []string{
	// OneTrust
	"#onetrust-accept-btn-handler",
	// Didomi
	"#didomi-notice-agree-button",
	// Cookiebot
	"#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll",
	"#CybotCookiebotDialogBodyButtonAccept",
	// Quantcast
	`.qc-cmp2-summary-buttons button[mode="primary"]`,
	// TrustArc
	"#truste-consent-button",
	// Axeptio
	"#axeptio_btn_acceptAll",
	// Usercentrics
	`[data-testid="uc-accept-all-button"]`,
	// Sirdata
	"#sd-cmp .sd-cmp-accept",
	// Generic
	"#cookie-accept",
	"#accept-cookies",
	".cookie-accept",
	".accept-cookies",
	`[aria-label="Accept cookies"]`,
	`[aria-label="Close"]`,
	".modal .close",
	".popup-close",
	".newsletter-popup .close",
}

// ButtonSelector matches button-like elements scanned in the text pass.
const ButtonSelector = `button, [role="button"]`

// DismissPattern matches the visible text of affirmative or dismissal
// controls in English and French, anywhere in the text as whole words.
// MaxButtonTextLength keeps it off longer prose.
var DismissPattern = regexp.MustCompile(`(?i)\b(accept(er)?|accept all|agree|i agree|consent(ir)?|close|dismiss|ok|okay|continue|continuer|got it|allow all|tout accepter|j'accepte|j’accepte|d'accord|d’accord|fermer)\b`)

var _ sift.ObstacleHandler = (*ObstacleHandler)(nil)

// ObstacleHandler clicks away consent banners and popups.
type ObstacleHandler struct {
	Selectors  []string
	Pattern    *regexp.Regexp
	ClickDelay time.Duration
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewObstacleHandler returns a handler with the default selectors, pattern
// and delays.
func NewObstacleHandler(logger *slog.Logger) *ObstacleHandler {
	return &ObstacleHandler{
		Selectors:  DismissSelectors,
		Pattern:    DismissPattern,
		ClickDelay: DefaultClickDelay,
		Timeout:    DefaultObstacleTimeout,
		Logger:     logger,
	}
}

// HandleObstacles runs the selector pass and then the button text pass.
// Every failure is swallowed; the report counts what happened.
func (h *ObstacleHandler) HandleObstacles(ctx context.Context, page sift.Page) sift.ObstacleReport {
	var report sift.ObstacleReport

	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	for _, sel := range h.Selectors {
		if ctx.Err() != nil {
			return report
		}
		els, err := page.Elements(ctx, sel)
		if err != nil || len(els) == 0 {
			continue
		}
		if err := els[0].Click(); err != nil {
			report.FailedClicks++
			h.logger().Debug("obstacle click failed", "selector", sel, "err", err)
			continue
		}
		report.SelectorClicks++
		sleep(ctx, h.ClickDelay)
	}

	if h.Pattern == nil || ctx.Err() != nil {
		return report
	}

	buttons, err := page.Elements(ctx, ButtonSelector)
	if err != nil {
		h.logger().Debug("listing buttons failed", "err", err)
		return report
	}
	for _, b := range buttons {
		if ctx.Err() != nil {
			break
		}
		text, err := b.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" || utf8.RuneCountInString(text) > MaxButtonTextLength || !h.Pattern.MatchString(text) {
			continue
		}
		if err := b.Click(); err != nil {
			report.FailedClicks++
			h.logger().Debug("obstacle click failed", "text", text, "err", err)
			continue
		}
		report.TextClicks++
		sleep(ctx, h.ClickDelay)
	}

	return report
}

func (h *ObstacleHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return discardLogger
	}
	return h.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)
