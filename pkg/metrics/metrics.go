// Package metrics provides Prometheus metrics for the ESG collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "esgtrack"
	subsystem = "collector"
)

// Custom registry to avoid default Go metrics.
var registry = prometheus.NewRegistry()

var (
	tickersProcessed prometheus.Counter
	tickersSkipped   *prometheus.CounterVec
	rowsWritten      prometheus.Counter
	httpRequests     prometheus.Counter
	httpRetries      prometheus.Counter
)

func init() {
	auto := promauto.With(registry)

	tickersProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tickers_processed_total",
		Help:      "Total number of tickers fetched and written successfully",
	})

	tickersSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tickers_skipped_total",
			Help:      "Total number of tickers skipped, by failure reason",
		},
		[]string{"reason"},
	)

	rowsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rows_written_total",
		Help:      "Total number of CSV rows appended to the output file",
	})

	httpRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of outbound HTTP requests issued",
	})

	httpRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_retries_total",
		Help:      "Total number of HTTP request retries (429/5xx)",
	})
}

// RecordTickerProcessed increments the processed tickers counter.
func RecordTickerProcessed() {
	tickersProcessed.Inc()
}

// RecordTickerSkipped increments the skipped tickers counter for a reason.
func RecordTickerSkipped(reason string) {
	tickersSkipped.WithLabelValues(reason).Inc()
}

// RecordRowWritten increments the rows written counter.
func RecordRowWritten() {
	rowsWritten.Inc()
}

// RecordHTTPRequest increments the outbound request counter.
func RecordHTTPRequest() {
	httpRequests.Inc()
}

// RecordHTTPRetry increments the retry counter.
func RecordHTTPRetry() {
	httpRetries.Inc()
}

// Registry returns the Prometheus registry used by the application metrics.
func Registry() *prometheus.Registry {
	return registry
}
