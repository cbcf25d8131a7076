package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	requestsTotal        *prometheus.CounterVec
	latencySeconds       *prometheus.HistogramVec
	errorsTotal          *prometheus.CounterVec
	generationsTotal     *prometheus.CounterVec
	evaluationsTotal     *prometheus.CounterVec
	persistenceFailures  *prometheus.CounterVec
	eventsPublishedTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcoach",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowcoach",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcoach",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		generationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcoach",
			Name:      "usecase_generations_total",
			Help:      "Use-case generation attempts by outcome.",
		}, []string{"outcome"})

		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcoach",
			Name:      "evaluations_total",
			Help:      "Workflow evaluations by submission kind and outcome.",
		}, []string{"kind", "outcome"})

		persistenceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcoach",
			Name:      "persistence_failures_total",
			Help:      "Results returned to the caller that could not be stored.",
		}, []string{"table"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcoach",
			Name:      "submission_events_published_total",
			Help:      "Submission events published per transport.",
		}, []string{"transport"})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			generationsTotal,
			evaluationsTotal,
			persistenceFailures,
			eventsPublishedTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// Generations counts use-case generation attempts.
func Generations() *prometheus.CounterVec {
	RegisterMetrics()
	return generationsTotal
}

// Evaluations counts evaluations by kind (workflow, json) and outcome.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// PersistenceFailures counts rows that failed to insert after a successful call.
func PersistenceFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return persistenceFailures
}

// EventsPublished counts submission events per transport.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}
