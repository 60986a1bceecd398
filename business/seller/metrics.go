package seller

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	VerificationTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seller_verification_transitions_total",
			Help: "Count of approve/reject requests by action and result (changed, unchanged, not_found, denied, rejected_input).",
		},
		[]string{"action", "result"},
	)
)

func init() {
	prometheus.MustRegister(VerificationTransitionsTotal)
}
