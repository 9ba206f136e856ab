package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pbp_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pbp_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LettersFulfilledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pbp_letters_fulfilled_total",
			Help: "Letters moved to the fulfilled stage by bulk actions",
		},
	)

	CSVImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pbp_csv_import_rows_total",
			Help: "CSV import rows by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)
)
