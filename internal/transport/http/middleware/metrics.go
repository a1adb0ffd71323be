package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "user_api"

// Metrics records per-route request counts and latency on reg. The
// registry is injected so every engine gets its own collectors; the
// router exposes the same registry at /metrics.
func Metrics(reg prometheus.Registerer) gin.HandlerFunc {
	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Requests served, by route, method and status.",
		}, []string{"path", "method", "status"},
	)
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request latency, by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	reg.MustRegister(reqTotal, latency)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// The route template, not the raw URL, keeps cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		reqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
