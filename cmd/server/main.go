// Command server runs the parley space/message API service.
//
// Configuration is layered: built-in defaults, a YAML config file
// (-config flag, PARLEY_CONFIG, ./config.yaml, /etc/parley/config.yaml),
// then PARLEY_* environment variable overrides.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/ratelimit"
	"github.com/parleyhq/parley/pkg/routes"
	"github.com/parleyhq/parley/pkg/storage"
	"github.com/parleyhq/parley/pkg/storage/memory"
	"github.com/parleyhq/parley/pkg/storage/postgres"
	"github.com/parleyhq/parley/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	limiter := ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)

	routerCfg := routes.Config{
		Store:   store,
		Limiter: limiter,
		Logger:  logger,
	}
	if cfg.Observability.Metrics.Enabled {
		routerCfg.MetricsPath = cfg.Observability.Metrics.Path
	}

	srv := transport.NewServer(routes.NewRouter(routerCfg), transport.ServerConfig{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"rate_capacity", cfg.RateLimit.Capacity,
		"rate_refill", cfg.RateLimit.RefillRate,
	)

	return srv.ListenAndServe()
}

// buildStore constructs the configured storage backend. The returned
// cleanup releases backend resources at shutdown.
func buildStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Type {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return store, store.Close, nil
	default:
		slog.Warn("using in-memory storage, all state is lost on restart")
		return memory.New(), func() {}, nil
	}
}
