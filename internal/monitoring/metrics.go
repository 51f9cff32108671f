// Package monitoring exposes the Prometheus metrics recorded by the bot and
// an HTTP handler for scraping them.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeFailure = "failure"
)

var (
	LocationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placefacts_location_requests_total",
			Help: "Total number of processed location queries by outcome",
		},
		[]string{"outcome"},
	)

	LocationRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "placefacts_location_request_duration_seconds",
			Help:    "Time spent processing a location query",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	MatchDistanceKm = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "placefacts_match_distance_km",
			Help:    "Distance between the query point and the matched landmark",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	FactsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placefacts_facts_total",
			Help: "Total number of facts returned by source (generated or fallback)",
		},
		[]string{"source"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "placefacts_generation_duration_seconds",
			Help:    "Duration of text-generation calls including fallbacks",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
	)

	DatasetLandmarks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "placefacts_dataset_landmarks",
			Help: "Number of landmarks loaded at startup",
		},
	)

	BotUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placefacts_bot_updates_total",
			Help: "Total number of chat updates handled by kind",
		},
		[]string{"kind"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placefacts_events_published_total",
			Help: "Result events written to the message broker",
		},
		[]string{"status"},
	)
)

// RecordLocationRequest counts a processed query and its duration.
func RecordLocationRequest(outcome string, duration time.Duration) {
	LocationRequestsTotal.WithLabelValues(outcome).Inc()
	LocationRequestDuration.Observe(duration.Seconds())
}

// RecordFact counts a fact by source and the time spent producing it.
func RecordFact(source string, duration time.Duration) {
	FactsTotal.WithLabelValues(source).Inc()
	GenerationDuration.Observe(duration.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
