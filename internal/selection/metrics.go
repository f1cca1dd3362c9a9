package selection

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsNotifier counts operation outcomes per list and action.
type MetricsNotifier struct {
	Outcomes *prometheus.CounterVec
}

func NewMetricsNotifier(reg prometheus.Registerer) *MetricsNotifier {
	m := &MetricsNotifier{
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selection_operations_total",
				Help: "Selection operations by list and outcome",
			},
			[]string{"list", "action"},
		),
	}
	reg.MustRegister(m.Outcomes)
	return m
}

func (m *MetricsNotifier) Notify(_ context.Context, _ string, n Notice) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(string(n.List), string(n.Action)).Inc()
}
