package notification

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seller_notifications_total",
			Help: "Count of seller verification e-mails by result (sent, failed, stale).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(NotificationsTotal)
}
