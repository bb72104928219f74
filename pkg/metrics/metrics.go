// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatAttemptsTotal tracks chat completion attempts per model and outcome.
	ChatAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_attempts_total",
			Help: "Chat completion attempts by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	// ChatRetriesTotal tracks rate-limit retries per model.
	ChatRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_retries_total",
			Help: "Rate-limit retries by model",
		},
		[]string{"model"},
	)

	// ChatDuration tracks end-to-end chat dispatch duration.
	ChatDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_dispatch_duration_seconds",
			Help:    "Chat dispatch duration including retries and fallbacks",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)

	// FlightSearchesTotal tracks flight searches by result source.
	FlightSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_searches_total",
			Help: "Flight searches by result source (real, synthetic)",
		},
		[]string{"source"},
	)

	// FlightOffersReturned tracks the number of offers per search.
	FlightOffersReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flight_offers_returned",
			Help:    "Number of offers returned per search",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	// CacheHitsTotal tracks flight cache hits and misses.
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_cache_total",
			Help: "Flight cache lookups by result",
		},
		[]string{"result"},
	)

	// AirportResolutionsTotal tracks airport code resolutions by source.
	AirportResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airport_resolutions_total",
			Help: "Airport code resolutions by source (static, llm, miss)",
		},
		[]string{"source"},
	)

	// MessagesTotal tracks persisted chat messages by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Persisted chat messages by role",
		},
		[]string{"role"},
	)

	// TripsTotal tracks trips created.
	TripsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trips_total",
			Help: "Total trips created",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordChatDispatch records the outcome of a full dispatch cycle.
func RecordChatDispatch(outcome string, duration float64) {
	ChatDuration.WithLabelValues(outcome).Observe(duration)
}

// RecordFlightSearch records a completed flight search.
func RecordFlightSearch(source string, offers int) {
	FlightSearchesTotal.WithLabelValues(source).Inc()
	FlightOffersReturned.Observe(float64(offers))
}
