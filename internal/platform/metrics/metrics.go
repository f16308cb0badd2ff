// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes used as the status label of TaskOperations.
const (
	StatusSuccess         = "success"
	StatusValidationError = "validation_error"
	StatusNotFound        = "not_found"
	StatusError           = "error"
)

var (
	// TaskOperations counts service operations by operation name and outcome.
	TaskOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskapi_task_operations_total",
			Help: "Total number of task service operations",
		},
		[]string{"operation", "status"},
	)

	// TaskOperationDuration observes service operation latency.
	TaskOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskapi_task_operation_duration_seconds",
			Help:    "Duration of task service operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// HTTPRequests counts handled requests by method, route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskapi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TagsPerTask records the size of the tag set written by create and update.
	TagsPerTask = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskapi_tags_per_task",
			Help:    "Number of tags attached to a task on write",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
	)
)

// ObserveTaskOperation records one service operation that started at start.
func ObserveTaskOperation(operation, status string, start time.Time) {
	TaskOperations.WithLabelValues(operation, status).Inc()
	TaskOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
