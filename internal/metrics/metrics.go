// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sportspredict"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter",
	})

	ArchiveRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_runs_total",
		Help:      "Archival sweeps, by result",
	}, []string{"result"})

	ArchivedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archived_events_total",
		Help:      "Events flagged as archived by sweeps",
	})

	IngestRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_records_total",
		Help:      "Ingested records, by kind (event, prediction) and result (created, existing, error)",
	}, []string{"kind", "result"})
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
