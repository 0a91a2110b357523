// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the quill server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, path, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quill_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// LLMRequestsTotal counts chat-completion calls to the LLM backend.
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_llm_requests_total",
			Help: "LLM backend requests",
		},
		[]string{"model", "status"},
	)

	// LLMLatency records LLM backend latency in seconds.
	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quill_llm_latency_seconds",
			Help:    "LLM backend latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// SearchQueriesTotal counts web searches by provider and outcome.
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_search_queries_total",
			Help: "Web search queries",
		},
		[]string{"provider", "status"},
	)

	// CrawlFetchesTotal counts page fetches by outcome.
	CrawlFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_crawl_fetches_total",
			Help: "Page fetches",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		LLMRequestsTotal,
		LLMLatency,
		SearchQueriesTotal,
		CrawlFetchesTotal,
	)
}
