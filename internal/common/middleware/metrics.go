package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"telewall/internal/common/metrics"
)

var (
	httpRequests = metrics.NewCounterVec("http", "requests_total",
		"Total number of HTTP requests handled.", "method", "route", "status")

	httpDuration = metrics.NewHistogramVec("http", "request_duration_seconds",
		"Duration of HTTP requests.", prometheus.ExponentialBuckets(0.005, 2, 10), "method", "route")
)

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the metrics registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(metrics.Handler())
}
