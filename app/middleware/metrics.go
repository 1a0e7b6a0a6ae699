package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Pasted image uploads partitioned by outcome
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pasted_image_uploads_total",
			Help: "Total pasted image uploads by result",
		},
		[]string{"result"},
	)

	// Bytes accepted into storage
	uploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pasted_image_uploaded_bytes_total",
			Help: "Total bytes of accepted pasted images",
		},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordUpload tracks the outcome of one upload attempt. Result is one of
// accepted, too_large, invalid_format, failed.
func RecordUpload(result string, sizeBytes int64) {
	uploadsTotal.With(prometheus.Labels{"result": result}).Inc()
	if result == "accepted" && sizeBytes > 0 {
		uploadedBytesTotal.Add(float64(sizeBytes))
	}
}
