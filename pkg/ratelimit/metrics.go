package ratelimit

import "github.com/prometheus/client_golang/prometheus"

var (
	denialsTotalMetrics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradeport_ratelimit_denials_total",
			Help: "Total number of admissions denied by the local token bucket",
		},
	)

	retriesTotalMetrics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradeport_ratelimit_retries_total",
			Help: "Total number of throttled attempts retried after a backoff sleep",
		},
	)
)

func init() {
	prometheus.MustRegister(
		denialsTotalMetrics,
		retriesTotalMetrics,
	)
}
