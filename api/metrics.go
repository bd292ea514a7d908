package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Quote outcomes recorded by the quotes counter
const (
	resultOK             = "ok"
	resultUnknownProduct = "unknown_product"
	resultInvalid        = "invalid"
)

// metrics holds the server's Prometheus collectors
type metrics struct {
	quotes       *prometheus.CounterVec
	basketItems  prometheus.Histogram
	skippedItems prometheus.Counter
}

func newMetrics(namespace string, reg prometheus.Registerer) *metrics {
	m := &metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of quote requests by outcome.",
		}, []string{"result"}),
		basketItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "basket_items",
			Help:      "Number of items in quoted baskets.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		skippedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_items_total",
			Help:      "Unknown product codes dropped from quotes with skip_unknown.",
		}),
	}
	reg.MustRegister(m.quotes, m.basketItems, m.skippedItems)
	return m
}
