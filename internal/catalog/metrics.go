package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type LookupMetrics struct {
	Lookups  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewLookupMetrics(reg prometheus.Registerer) *LookupMetrics {
	m := &LookupMetrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_lookups_total",
				Help: "Catalog lookups by operation and outcome status",
			},
			[]string{"op", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "catalog_lookup_duration_seconds",
				Help: "Catalog lookup latency including source fetch",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.Lookups, m.Duration)
	return m
}

func (m *LookupMetrics) observe(op string, status Status, start time.Time) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(op, string(status)).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
