package tradeportapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradeport_api_requests_total",
			Help: "Total number of Tradeport API requests by method, endpoint and status code (0 = transport failure)",
		}, []string{"method", "endpoint", "status"},
	)

	requestDurationMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradeport_api_request_duration_milliseconds",
			Help:    "Tradeport API request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12), // 10ms to ~40s
		}, []string{"method", "endpoint"},
	)

	throttledTotalMetrics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradeport_api_throttled_total",
			Help: "Total number of requests rejected with HTTP 429",
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestsTotalMetrics,
		requestDurationMetrics,
		throttledTotalMetrics,
	)
}

func observeRequest(req *http.Request, status int, elapsed time.Duration) {
	endpoint := req.URL.Path
	requestsTotalMetrics.WithLabelValues(req.Method, endpoint, strconv.Itoa(status)).Inc()
	requestDurationMetrics.WithLabelValues(req.Method, endpoint).
		Observe(float64(elapsed) / float64(time.Millisecond))

	if status == http.StatusTooManyRequests {
		throttledTotalMetrics.Inc()
	}
}
