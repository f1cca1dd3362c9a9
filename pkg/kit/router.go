package kit

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTPDeps is the ambient wiring every service router gets: request ids,
// panic recovery, access logs and, with a registry, request metrics.
type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

// NewRouter returns a chi router with the shared middleware installed.
// /metrics is served only when MetricsEnabled is set and guarded by
// MetricsToken.
func NewRouter(deps HTTPDeps) *chi.Mux {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Recoverer(deps.Log))
	r.Use(Logging(deps.Log))

	if deps.Registry == nil {
		return r
	}

	metrics := NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service))

	if deps.MetricsEnabled {
		r.With(MetricsAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
	return r
}
