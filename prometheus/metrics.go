// Package prometheus exposes search pipeline metrics with the Prometheus
// client library.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/sift"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for the search pipeline.
type Metrics struct {
	searchesTotal    *prometheus.CounterVec
	pagesTotal       *prometheus.CounterVec
	extractionsTotal *prometheus.CounterVec
	platformsTotal   *prometheus.CounterVec
	clicksTotal      *prometheus.CounterVec
	stageSeconds     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_searches_total",
				Help: "Total number of searches, labeled by whether any content was returned.",
			},
			[]string{"outcome"},
		),
		pagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_pages_total",
				Help: "Total number of pages fetched, labeled by whether the page was kept.",
			},
			[]string{"outcome"},
		),
		extractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_extractions_total",
				Help: "Total number of content extractions, labeled by method.",
			},
			[]string{"method"},
		),
		platformsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_consent_platforms_total",
				Help: "Total number of pages embedding a known consent platform.",
			},
			[]string{"platform"},
		),
		clicksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_obstacle_clicks_total",
				Help: "Total number of obstacle dismissal clicks, labeled by pass and result.",
			},
			[]string{"kind"},
		),
		stageSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sift_stage_duration_seconds",
				Help:    "Histogram of pipeline stage durations.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"stage"},
		),
	}
}

// Handler returns an http.Handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveResponse records the metrics of a finished search.
func (m *Metrics) ObserveResponse(resp *sift.SearchResponse) {
	if resp == nil {
		return
	}

	outcome := "empty"
	if len(resp.Data) > 0 {
		outcome = "results"
	}
	m.searchesTotal.WithLabelValues(outcome).Inc()

	fetched := 0
	for key, ms := range resp.Timing.Stages {
		_, stage := sift.SplitStageKey(key)
		if stage == sift.StageFetch {
			fetched++
		}
		m.stageSeconds.WithLabelValues(stage).Observe((time.Duration(ms) * time.Millisecond).Seconds())
	}

	kept := len(resp.Data)
	m.pagesTotal.WithLabelValues("kept").Add(float64(kept))
	if dropped := fetched - kept; dropped > 0 {
		m.pagesTotal.WithLabelValues("dropped").Add(float64(dropped))
	}

	for _, item := range resp.Data {
		if item.Extraction != nil {
			m.extractionsTotal.WithLabelValues(string(item.Extraction.Method)).Inc()
		}
		if item.Obstacles == nil {
			continue
		}
		if item.Obstacles.Platform != sift.ConsentUnknown {
			m.platformsTotal.WithLabelValues(string(item.Obstacles.Platform)).Inc()
		}
		m.clicksTotal.WithLabelValues("selector").Add(float64(item.Obstacles.SelectorClicks))
		m.clicksTotal.WithLabelValues("text").Add(float64(item.Obstacles.TextClicks))
		m.clicksTotal.WithLabelValues("failed").Add(float64(item.Obstacles.FailedClicks))
	}
}

// Ensure Service implements sift.SearchService.
var _ sift.SearchService = (*Service)(nil)

// Service wraps a SearchService and records metrics for every response.
type Service struct {
	next    sift.SearchService
	metrics *Metrics
}

// NewService creates a new Service.
func NewService(next sift.SearchService, metrics *Metrics) *Service {
	return &Service{next: next, metrics: metrics}
}

// Search delegates to the wrapped service and observes the response.
func (s *Service) Search(ctx context.Context, query string, opts sift.SearchOptions) *sift.SearchResponse {
	resp := s.next.Search(ctx, query, opts)
	s.metrics.ObserveResponse(resp)
	return resp
}
