package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"PhoneCompare/internal/config"
	"PhoneCompare/internal/gateway"
	"PhoneCompare/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.Load[config.Gateway](service, config.GatewayDefaults())
	if err != nil {
		panic(err)
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	if cfg.Auth.Secret != "" && len(cfg.Auth.Secret) < 32 {
		log.Fatal("auth.secret must be at least 32 chars")
	}

	reg := prometheus.NewRegistry()
	h, err := gateway.NewHandler(gateway.Deps{
		CatalogURL:   cfg.Upstreams.Catalog,
		SelectionURL: cfg.Upstreams.Selection,
		JWTSecret:    cfg.Auth.Secret,
	}, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(cfg.HTTP.Addr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
