package search_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/mock"
	"github.com/fwojciec/sift/search"
	"github.com/stretchr/testify/assert"
)

// clickable returns an element with the given text that records clicks.
func clickable(text string, clicks *[]string) *mock.Element {
	return &mock.Element{
		TextFn: func() (string, error) { return text, nil },
		ClickFn: func() error {
			*clicks = append(*clicks, text)
			return nil
		},
	}
}

func newHandler() *search.ObstacleHandler {
	h := search.NewObstacleHandler(nil)
	h.ClickDelay = 0
	return h
}

func TestObstacleHandler(t *testing.T) {
	t.Parallel()

	t.Run("clicks the first match of a known selector", func(t *testing.T) {
		t.Parallel()

		var clicks []string
		page := &mock.Page{
			ElementsFn: func(ctx context.Context, selector string) ([]sift.Element, error) {
				if selector == "#didomi-notice-agree-button" {
					return []sift.Element{clickable("first", &clicks), clickable("second", &clicks)}, nil
				}
				return nil, nil
			},
		}

		report := newHandler().HandleObstacles(context.Background(), page)

		assert.Equal(t, 1, report.SelectorClicks)
		assert.Equal(t, 0, report.TextClicks)
		assert.Equal(t, []string{"first"}, clicks)
	})

	t.Run("clicks buttons with dismissal text", func(t *testing.T) {
		t.Parallel()

		var clicks []string
		page := &mock.Page{
			ElementsFn: func(ctx context.Context, selector string) ([]sift.Element, error) {
				if selector != search.ButtonSelector {
					return nil, nil
				}
				return []sift.Element{
					clickable("Tout accepter", &clicks),
					clickable("Subscribe", &clicks),
					clickable("  J'accepte  ", &clicks),
					clickable("OK", &clicks),
					clickable("Accept "+strings.Repeat("everything ", 5), &clicks),
					clickable("Closed captions", &clicks),
				}, nil
			},
		}

		report := newHandler().HandleObstacles(context.Background(), page)

		assert.Equal(t, 3, report.TextClicks)
		assert.Equal(t, []string{"Tout accepter", "  J'accepte  ", "OK"}, clicks)
	})

	t.Run("counts failed clicks and continues", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			ElementsFn: func(ctx context.Context, selector string) ([]sift.Element, error) {
				switch selector {
				case "#onetrust-accept-btn-handler":
					return []sift.Element{&mock.Element{
						ClickFn: func() error { return errors.New("node detached") },
					}}, nil
				case "#truste-consent-button":
					return []sift.Element{&mock.Element{ClickFn: func() error { return nil }}}, nil
				}
				return nil, errors.New("no such node")
			},
		}

		report := newHandler().HandleObstacles(context.Background(), page)

		assert.Equal(t, 1, report.FailedClicks)
		assert.Equal(t, 1, report.SelectorClicks)
	})

	t.Run("uses custom pattern", func(t *testing.T) {
		t.Parallel()

		var clicks []string
		page := &mock.Page{
			ElementsFn: func(ctx context.Context, selector string) ([]sift.Element, error) {
				if selector != search.ButtonSelector {
					return nil, nil
				}
				return []sift.Element{clickable("Akzeptieren", &clicks), clickable("Accept", &clicks)}, nil
			},
		}
		h := newHandler()
		h.Selectors = nil
		h.Pattern = regexp.MustCompile(`(?i)^akzeptieren$`)

		report := h.HandleObstacles(context.Background(), page)

		assert.Equal(t, 1, report.TextClicks)
		assert.Equal(t, []string{"Akzeptieren"}, clicks)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		var calls int
		page := &mock.Page{
			ElementsFn: func(ctx context.Context, selector string) ([]sift.Element, error) {
				calls++
				return nil, nil
			},
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := newHandler().HandleObstacles(ctx, page)

		assert.Zero(t, report.Clicks())
		assert.Zero(t, calls)
	})
}

func TestDismissPattern(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"Accept", "accept all", "I agree", "Consentir", "Close", "Dismiss", "Continuer", "Fermer", "D’accord", "Got it", "Yes, I agree", "Oui, j'accepte", "Non merci, fermer"} {
		assert.True(t, search.DismissPattern.MatchString(text), text)
	}
	for _, text := range []string{"Read more", "Closed", "Okinawa", "Share", "Book now", "Cookie settings", "Je n'accepte pas"} {
		assert.False(t, search.DismissPattern.MatchString(text), text)
	}
}
