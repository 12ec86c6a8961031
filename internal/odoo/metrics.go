package odoo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odoo_bridge_backend_calls_total",
		Help: "Outcome of XML-RPC calls against the Odoo backend",
	}, []string{
		"endpoint", // common|object
		"method",   // authenticate|search_read|read|create|write|...
		"outcome",  // success|auth_failed|unavailable|bad_response|fault
	})

	backendCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odoo_bridge_backend_call_duration_seconds",
		Help:    "XML-RPC call latencies against the Odoo backend in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
)

func observeCall(endpoint, method, outcome string, seconds float64) {
	backendCallsTotal.WithLabelValues(endpoint, method, outcome).Inc()
	backendCallDuration.WithLabelValues(endpoint, method).Observe(seconds)
}
