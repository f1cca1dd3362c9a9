package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"PhoneCompare/internal/auth"
	"PhoneCompare/internal/config"
	"PhoneCompare/internal/database"
	"PhoneCompare/internal/selection"
	"PhoneCompare/pkg/kit"
)

func main() {
	service := "selection"

	cfg, err := config.Load[config.Selection](service, config.SelectionDefaults())
	if err != nil {
		panic(err)
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	storage, closeStorage, err := buildStorage(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("init selection storage failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	registry, err := selection.NewRegistry(storage, cfg.Cache.Owners, selection.Options{
		CompareLimit: cfg.Compare.Limit,
		Log:          log,
		Notifier: selection.Notifiers{
			selection.LogNotifier{Log: log},
			selection.NewMetricsNotifier(reg),
		},
	})
	if err != nil {
		log.Fatal("init owner registry failed", zap.Error(err))
	}

	owners := selection.OwnerResolver{TrustUserHeader: cfg.Owner.TrustHeader}
	if cfg.Auth.Secret != "" {
		owners.Tokens = auth.NewTokenMaker(cfg.Auth.Secret)
	}

	s := &selection.Server{
		Registry: registry,
		Owners:   owners,
		Log:      log,
	}
	if cfg.Catalog.URL != "" {
		s.Catalog = selection.NewCatalogClient(cfg.Catalog.URL, cfg.Catalog.Timeout)
	}

	h := selection.NewHandler(s, selection.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	log.Info("selection configured",
		zap.String("storage", cfg.Storage.Backend),
		zap.Int("compare_limit", cfg.Compare.Limit),
		zap.Int("cached_owners", cfg.Cache.Owners))

	if err := kit.RunHTTPServer(cfg.HTTP.Addr, h, log, closeStorage); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStorage(ctx context.Context, cfg config.Selection, log *zap.Logger) (selection.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return selection.NewMemStorage(), func() {}, nil
	case "redis":
		rs, err := selection.OpenRedisStorage(cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.DB.URL, cfg.DB.Timeout, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("selection database connected", zap.String("url", config.MaskURL(cfg.DB.URL)))
		return selection.NewSQLStorage(db, selection.DialectPostgres), func() { _ = db.Close() }, nil
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return selection.NewSQLStorage(db, selection.DialectSQLite), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
