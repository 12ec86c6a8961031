package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "odoo_bridge_dispatch_total",
	Help: "Outcome of dispatched actions (success, validation_failed, unknown, error)",
}, []string{"action", "outcome"})

func observeDispatch(action, outcome string) {
	dispatchTotal.WithLabelValues(action, outcome).Inc()
}
