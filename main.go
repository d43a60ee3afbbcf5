package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"storefront/config"
	"storefront/handlers"
	"storefront/repository"
	"storefront/services"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pR, closeCatalog, err := openCatalog(cfg)
	if err != nil {
		logger.Fatal("catalog unavailable", zap.String("source", cfg.CatalogSource), zap.Error(err))
	}
	defer closeCatalog()
	ps, err := services.NewProductService(pR)
	if err != nil {
		logger.Fatal("catalog load failed", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("products", len(ps.Catalog())))

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("storage unavailable", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer closeStore()
	logger.Info("storage connected", zap.String("backend", cfg.StorageBackend))

	sessions, err := handlers.NewSessions(kv, ps.Catalog(), handlers.SessionOptions{
		MaxSessions: cfg.SessionLimit,
		IdleTTL:     cfg.CartTTL,
	}, logger)
	if err != nil {
		logger.Fatal("session registry", zap.Error(err))
	}
	pricing, _ := cfg.Pricing()
	ha := handlers.NewHandler(handlers.HandlerParams{
		PrdService: ps,
		ChkService: services.NewCheckoutService(services.Pricing(pricing), logger),
		Sessions:   sessions,
		Logger:     logger,
	})
	router := handlers.NewRouter(ha)

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zcfg.Level = lvl
	return zcfg.Build()
}

func openCatalog(cfg config.Config) (repository.ProductRepository, func(), error) {
	noop := func() {}
	if cfg.CatalogSource == "yaml" {
		repo, err := repository.NewCatalogFileRepository(cfg.CatalogPath)
		return repo, noop, err
	}
	db, err := sql.Open(cfg.CatalogSource, cfg.CatalogDSN)
	if err != nil {
		return nil, noop, err
	}
	repo, err := repository.NewProductRepository(db)
	if err != nil {
		db.Close()
		return nil, noop, err
	}
	return repo, func() { db.Close() }, nil
}

func openStore(cfg config.Config) (repository.KeyValueStore, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opt)
		kv, err := repository.NewRedisStore(rdb, context.Background(), cfg.CartTTL)
		if err != nil {
			rdb.Close()
			return nil, noop, err
		}
		return kv, func() { rdb.Close() }, nil
	case "sqlite3":
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		kv, err := repository.NewSQLiteStore(db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return kv, func() { db.Close() }, nil
	}
	return repository.NewMemoryStore(), noop, nil
}
