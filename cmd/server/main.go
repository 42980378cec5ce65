package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/klacilab/region-rankings/internal/cache"
	"github.com/klacilab/region-rankings/internal/cache/lrustore"
	"github.com/klacilab/region-rankings/internal/cache/memstore"
	"github.com/klacilab/region-rankings/internal/cache/redisstore"
	"github.com/klacilab/region-rankings/internal/config"
	"github.com/klacilab/region-rankings/internal/logger"
	"github.com/klacilab/region-rankings/internal/server"
	"github.com/klacilab/region-rankings/internal/stats"
	"github.com/klacilab/region-rankings/internal/store/postgres"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// optional local overrides, absent in deployed environments
	_ = godotenv.Load(".env.local")

	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	appLog.Info("starting rankings server",
		"addr", cfg.Addr,
		"version", Version,
		"cache_backend", cfg.CacheBackend,
		"cache_ttl", cfg.CacheTTL)

	st, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		appLog.Error("database setup failed", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := newCache(ctx, cfg)
	if err != nil {
		appLog.Error("cache setup failed", "err", err)
		return 1
	}

	svc := stats.New(appLog, st, c, cfg.CacheTTL)

	if err := server.Run(ctx, cfg, appLog, svc, st); err != nil {
		appLog.Error("server exited", "err", err)
		return 1
	}
	return 0
}

func newCache(ctx context.Context, cfg config.Config) (cache.Interface, error) {
	switch cfg.CacheBackend {
	case "memory":
		return memstore.New(), nil
	case "lru":
		return lrustore.New(cfg.CacheLRUSize, cfg.CacheTTL), nil
	case "redis":
		return redisstore.New(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
