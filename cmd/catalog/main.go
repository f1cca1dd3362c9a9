package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"PhoneCompare/internal/catalog"
	"PhoneCompare/internal/config"
	"PhoneCompare/internal/database"
	"PhoneCompare/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load[config.Catalog](service, config.CatalogDefaults())
	if err != nil {
		panic(err)
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	src, db, err := buildSource(ctx, cfg, log)
	if err != nil {
		log.Fatal("init catalog source failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	lookup := catalog.NewService(src, catalog.Options{
		Timeout:     cfg.Lookup.Timeout,
		NotFound:    catalog.NotFoundPolicy(cfg.Lookup.NotFound),
		Concurrency: cfg.Lookup.Concurrency,
		Log:         log,
		Metrics:     catalog.NewLookupMetrics(reg),
	})

	s := &catalog.Server{Lookup: lookup, Log: log}
	if cfg.RateLimit.PerMinute > 0 {
		limiter := kit.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		if err := limiter.TrustProxies(strings.Split(cfg.RateLimit.TrustedProxies, ",")...); err != nil {
			log.Fatal("invalid ratelimit.trustedproxies", zap.Error(err))
		}
		s.SearchLimiter = limiter
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	log.Info("catalog configured",
		zap.String("source", cfg.Lookup.Source),
		zap.String("not_found", cfg.Lookup.NotFound),
		zap.Duration("timeout", cfg.Lookup.Timeout))

	err = kit.RunHTTPServer(cfg.HTTP.Addr, h, log, func() {
		if db != nil {
			_ = db.Close()
		}
	})
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildSource(ctx context.Context, cfg config.Catalog, log *zap.Logger) (catalog.Source, *sql.DB, error) {
	remote := func() catalog.Source {
		return catalog.NewRemoteSource(catalog.RemoteConfig{
			BaseURL:   cfg.Remote.BaseURL,
			UserAgent: cfg.Remote.UserAgent,
			Timeout:   cfg.Remote.Timeout,
		})
	}

	switch cfg.Lookup.Source {
	case "static":
		return catalog.NewSeededSource(), nil, nil
	case "remote":
		return remote(), nil, nil
	case "hybrid":
		return catalog.NewHybridSource(remote(), catalog.NewSeededSource(), log), nil, nil
	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.DB.URL, cfg.DB.Timeout, log)
		if err != nil {
			return nil, nil, err
		}
		src := catalog.NewPostgresSource(db)
		if cfg.Seed {
			seeded := catalog.NewSeededSource()
			if err := src.Seed(ctx, seeded.All(), seeded.TrendingIDs()); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("seed products: %w", err)
			}
			n, _ := src.Count(ctx)
			log.Info("catalog seeded", zap.Int("products", n))
		}
		log.Info("catalog database connected", zap.String("url", config.MaskURL(cfg.DB.URL)))
		return src, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown lookup source %q", cfg.Lookup.Source)
	}
}
