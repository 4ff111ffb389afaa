package shop

import "github.com/prometheus/client_golang/prometheus"

const (
	rejectNoStock   = "insufficient_stock"
	rejectNoPhone   = "phone_not_found"
	rejectBadInput  = "invalid_input"
	metricNamespace = "phoneshop"
)

type cartMetrics struct {
	reserved   prometheus.Gauge
	rejections *prometheus.CounterVec
}

func newCartMetrics(reg prometheus.Registerer) *cartMetrics {
	m := &cartMetrics{
		reserved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "cart_reserved_units",
			Help:      "Units of stock currently held by the cart",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "cart_rejections_total",
			Help:      "Cart additions refused, by reason",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.reserved, m.rejections)
	return m
}

func (m *cartMetrics) setReserved(units int) {
	if m == nil {
		return
	}
	m.reserved.Set(float64(units))
}

func (m *cartMetrics) reject(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}
