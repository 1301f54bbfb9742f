// Package observability provides Prometheus metrics for the presale service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	// Exchange metrics
	PurchasesTotal  *prometheus.CounterVec
	OperationErrors *prometheus.CounterVec

	// Oracle metrics
	OracleUp           *prometheus.GaugeVec
	OraclePrice        *prometheus.GaugeVec
	OracleAgeSeconds   *prometheus.GaugeVec
	OracleWatchLatency prometheus.Histogram

	// API metrics
	RateLimited  prometheus.Counter
	AuthFailures *prometheus.CounterVec
}

// NewMetrics registers all metrics with reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "presale"
	}
	f := promauto.With(reg)

	return &Metrics{
		PurchasesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exchange",
			Name:      "purchases_total",
			Help:      "Successful purchases by payment currency",
		}, []string{"currency"}),
		OperationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exchange",
			Name:      "operation_errors_total",
			Help:      "Failed operations by operation and reason",
		}, []string{"operation", "reason"}),
		OracleUp: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "up",
			Help:      "1 when the last probe of the oracle returned a usable price",
		}, []string{"currency", "oracle"}),
		OraclePrice: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "price_usd",
			Help:      "Last probed USD price",
		}, []string{"currency", "oracle"}),
		OracleAgeSeconds: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "answer_age_seconds",
			Help:      "Seconds since the oracle last updated its answer",
		}, []string{"currency", "oracle"}),
		OracleWatchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "watch_duration_seconds",
			Help:      "Duration of one oracle watch run",
			Buckets:   prometheus.DefBuckets,
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "auth_failures_total",
			Help:      "Rejected signed requests by cause",
		}, []string{"cause"}),
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
