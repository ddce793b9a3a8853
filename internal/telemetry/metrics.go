package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesMetricsComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_metrics_computations_total",
		Help: "Total number of sales metrics computations by result",
	}, []string{"result"})

	SalesMetricsComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sales_metrics_compute_duration_seconds",
		Help:    "Latency of sales metrics computations",
		Buckets: prometheus.DefBuckets,
	})

	StoreQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Latency of store queries issued by the sales engine",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	ImageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_image_uploads_total",
		Help: "Total number of product image uploads by result",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

// Label values for SalesMetricsComputations.
const (
	ResultOK               = "ok"
	ResultInvalidFilter    = "invalid_filter"
	ResultStoreUnavailable = "store_unavailable"
	ResultError            = "error"
)
