// Package metrics holds the prometheus collectors of the conversion service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoconv",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoconv",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoconv",
		Subsystem: "codec",
		Name:      "conversions_total",
		Help:      "Total conversions by source format, target format and outcome",
	}, []string{"from", "to", "result"})

	conversionBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoconv",
		Subsystem: "codec",
		Name:      "output_size_bytes",
		Help:      "Size of encoded geometries in bytes",
		Buckets:   prometheus.ExponentialBuckets(32, 4, 8),
	}, []string{"to"})

	// BatchFiles counts files handled by the batch converter.
	BatchFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoconv",
		Subsystem: "batch",
		Name:      "files_total",
		Help:      "Total files processed by the batch converter",
	}, []string{"result"})
)

// ObserveRequest records one served request. An empty pattern means the
// request matched no route.
func ObserveRequest(method, pattern string, status int, d time.Duration) {
	if pattern == "" {
		pattern = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, pattern).Observe(d.Seconds())
}

// ObserveConversion records a conversion outcome and, on success, the output size.
func ObserveConversion(from, to string, size int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	conversionsTotal.WithLabelValues(from, to, result).Inc()
	if err == nil {
		conversionBytes.WithLabelValues(to).Observe(float64(size))
	}
}

// Handler serves the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
