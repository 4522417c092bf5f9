package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	quizGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_generated_total",
			Help: "Quiz generation requests by question type and outcome",
		},
		[]string{"type", "result"},
	)

	enrichmentCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_calls_total",
			Help: "Total number of enrichment provider calls",
		},
		[]string{"status"},
	)

	// Local models are slow; buckets reach a minute.
	enrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Enrichment provider call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocabulary_exports_total",
			Help: "Vocabulary exports by format",
		},
		[]string{"format"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"action"},
	)
)

// MetricsMiddleware records request count and latency per route pattern.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		// FullPath keeps :params so cardinality stays bounded.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func RecordQuizGenerated(quizType, result string) {
	quizGeneratedTotal.WithLabelValues(quizType, result).Inc()
}

// RecordEnrichmentCall is wired as the enrichment runner's observer.
func RecordEnrichmentCall(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	enrichmentCallsTotal.WithLabelValues(status).Inc()
	enrichmentDuration.Observe(duration.Seconds())
}

func RecordExport(format string) {
	exportsTotal.WithLabelValues(format).Inc()
}
