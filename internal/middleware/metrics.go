package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// SalesCounter tracks completed checkouts; incremented by the routes
	// layer on 201 responses to /transactions.
	SalesCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sales_total",
			Help: "Total number of completed sales",
		},
	)
)

// Metrics records request count and latency per route. Route pattern, not
// raw path, keeps label cardinality bounded.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		method := c.Method()
		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)

		if method == fiber.MethodPost && path == "/api/v1/transactions" && c.Response().StatusCode() == fiber.StatusCreated {
			SalesCounter.Inc()
		}

		return err
	}
}
