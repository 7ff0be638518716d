package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "search_requests_total",
			Help:      "Total number of keyword searches",
		},
		[]string{"algorithm", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "screener",
			Name:      "search_duration_seconds",
			Help:      "Wall-clock time of the fan-out and merge of one search",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"algorithm"},
	)

	SearchDocumentsScanned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "search_documents_scanned_total",
			Help:      "Total candidate documents processed by searches",
		},
	)

	SearchDocumentErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "search_document_errors_total",
			Help:      "Candidate documents dropped from a search after a processing error",
		},
	)

	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "search_results_total",
			Help:      "Ranked results returned, by match kind",
		},
		[]string{"kind"}, // "exact" / "fuzzy"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchDocumentsScanned)
	prometheus.MustRegister(SearchDocumentErrors)
	prometheus.MustRegister(SearchResultsTotal)
	searchMetricsRegistered = true
}
