package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the instrumentation of the update pipeline.
type Metrics struct {
	UpdateCycles   *prometheus.CounterVec
	UpdateDuration prometheus.Histogram
	PageFormations *prometheus.GaugeVec
	Subscribers    prometheus.Gauge
	Notifications  prometheus.Counter
}

// NewMetrics registers and returns the metric set.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpdateCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ktmuscrap",
			Name:      "update_cycles_total",
			Help:      "Update cycles by result.",
		}, []string{"result"}),
		UpdateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ktmuscrap",
			Name:      "update_cycle_duration_seconds",
			Help:      "Wall time of a full update cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		PageFormations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ktmuscrap",
			Name:      "page_formations",
			Help:      "Formations in the current snapshot per page kind.",
		}, []string{"kind"}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ktmuscrap",
			Name:      "subscribers",
			Help:      "Currently registered notification subscribers.",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ktmuscrap",
			Name:      "notifications_total",
			Help:      "Published change notifications.",
		}),
	}

	reg.MustRegister(
		m.UpdateCycles,
		m.UpdateDuration,
		m.PageFormations,
		m.Subscribers,
		m.Notifications,
	)

	return m
}
