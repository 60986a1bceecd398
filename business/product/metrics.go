package product

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProductUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_uploads_total",
			Help: "Count of product upload attempts by result (created, denied, invalid, error).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(ProductUploadsTotal)
}
