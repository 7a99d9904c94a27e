// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service updates.
type Metrics struct {
	registry *prometheus.Registry

	ImportsTotal     *prometheus.CounterVec
	ImportDuration   *prometheus.HistogramVec
	ReceiptsImported *prometheus.CounterVec
	RowsDropped      *prometheus.CounterVec
	FieldErrors      *prometheus.CounterVec
	StockLookups     *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	SessionsPurged   prometheus.Counter
}

// New creates the collectors on a fresh registry that also carries the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ImportsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoken_imports_total",
				Help: "Statement imports by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		ImportDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shoken_import_duration_seconds",
				Help:    "Time spent decoding, parsing and aggregating a statement",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		ReceiptsImported: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoken_receipts_imported_total",
				Help: "Receipts kept after aggregation",
			},
			[]string{"kind"},
		),
		RowsDropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoken_rows_dropped_total",
				Help: "Rows dropped because their aggregation key was missing",
			},
			[]string{"kind"},
		),
		FieldErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoken_field_errors_total",
				Help: "Statement cells that could not be parsed",
			},
			[]string{"kind"},
		),
		StockLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoken_stock_lookups_total",
				Help: "Stock lookups by result",
			},
			[]string{"result"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoken_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shoken_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SessionsPurged: f.NewCounter(
			prometheus.CounterOpts{
				Name: "shoken_sessions_purged_total",
				Help: "Expired sessions removed by the purge job",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStockLookup counts one stock lookup outcome.
func (m *Metrics) ObserveStockLookup(result string) {
	m.StockLookups.WithLabelValues(result).Inc()
}
