package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salvage_vision_http_requests_total",
		Help: "HTTP requests by path and status class.",
	}, []string{"path", "status"})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salvage_vision_analyses_total",
		Help: "Vehicle analyses by outcome.",
	}, []string{"outcome"})

	imagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salvage_vision_images_fetched_total",
		Help: "Listing photos successfully downloaded.",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salvage_vision_analysis_duration_seconds",
		Help:    "End to end analysis latency including the gateway call.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

// CountAnalysis records one analysis outcome: ok, invalid_url,
// manual_input_required, no_images, ai_error, parse_error or internal.
func CountAnalysis(outcome string) {
	analysesTotal.WithLabelValues(outcome).Inc()
}

// CountImagesFetched records successfully downloaded photos.
func CountImagesFetched(n int) {
	imagesFetched.Add(float64(n))
}

// ObserveAnalysisDuration records one end to end analysis latency.
func ObserveAnalysisDuration(seconds float64) {
	analysisDuration.Observe(seconds)
}

// Metrics tracks per-request counters.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
