package prometheus

import (
	"label-service/pkg/config"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Tenant context metrics
	TenantContextMissingCounter prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Template metrics
	TemplateOperationsCounter prometheus.CounterVec

	// Render pipeline metrics
	RenderDuration        prometheus.Histogram
	RenderElementsTotal   prometheus.Counter
	BarcodeEncodeFailures prometheus.Counter

	// Catalog lookup metrics
	CatalogLookupsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Tenant context metrics
	TenantContextMissingCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_context_missing_total",
			Help: "Total number of requests without tenant context",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Template metrics
	TemplateOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_template_operations_total",
			Help: "Total number of label template operations",
		},
		[]string{"operation"},
	)

	// Render pipeline metrics
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_render_duration_seconds",
			Help:    "Duration of label render operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RenderElementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_render_elements_total",
			Help: "Total number of elements rendered",
		},
	)

	BarcodeEncodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_barcode_encode_failures_total",
			Help: "Total number of barcode encode failures during rendering",
		},
	)

	// Catalog lookup metrics
	CatalogLookupsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_lookups_total",
			Help: "Total number of product catalog lookups",
		},
		[]string{"result"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordTemplateOperation increments the counter for template operations
func RecordTemplateOperation(operation string) {
	TemplateOperationsCounter.WithLabelValues(operation).Inc()
}

// ObserveRender records the duration of a render operation and the element count
func ObserveRender(start time.Time, elements int) {
	RenderDuration.Observe(time.Since(start).Seconds())
	RenderElementsTotal.Add(float64(elements))
}

// RecordBarcodeFailure increments the barcode encode failure counter
func RecordBarcodeFailure() {
	BarcodeEncodeFailures.Inc()
}

// RecordCatalogLookup increments the catalog lookup counter
func RecordCatalogLookup(result string) {
	CatalogLookupsCounter.WithLabelValues(result).Inc()
}
