// Command reconcile folds todo monitoring records into the per-source-record
// snapshots and marks them done. Several instances may run at once when the
// redis lock backend is configured.
//
// Usage:
//
//	reconcile [--config=config.yaml] [--limit=N]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/heartmarshall/ongoing-monitor/internal/adapter/lock"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/monitoring"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/result"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/redis"
	"github.com/heartmarshall/ongoing-monitor/internal/app"
	"github.com/heartmarshall/ongoing-monitor/internal/config"
	"github.com/heartmarshall/ongoing-monitor/internal/metrics"
	"github.com/heartmarshall/ongoing-monitor/internal/service/reconcile"
)

type locker interface {
	Lock(ctx context.Context, keys []string) (func(ctx context.Context) error, error)
}

var (
	_ locker = (*lock.Local)(nil)
	_ locker = (*lock.Redis)(nil)
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: CONFIG_PATH or ./config.yaml)")
	limit := flag.Int("limit", 0, "maximum records to reconcile (0 = all)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "reconcile")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Reconcile.Timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	var locks locker = lock.NewLocal()
	if cfg.Reconcile.LockBackend == config.LockBackendRedis {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logger.Error("connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer client.Close()

		locks = lock.NewRedis(client.Client, lock.RedisOptions{
			Prefix: "ongoing-monitoring:snapshot:",
			TTL:    cfg.Reconcile.LockTTL,
			Retry:  cfg.Reconcile.LockRetry,
			Wait:   cfg.Reconcile.LockWait,
		})
	}

	m := metrics.New()

	svc := reconcile.NewService(logger,
		reconcile.Config{
			Workers:   cfg.Reconcile.Workers,
			BatchSize: cfg.Reconcile.BatchSize,
		},
		monitoring.New(pool),
		result.New(pool),
		postgres.NewTxManager(pool),
		locks,
		m,
	)

	report, err := svc.RunPass(ctx, reconcile.PassOptions{Limit: *limit})

	if err := m.Push(context.WithoutCancel(ctx), cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn("push metrics", slog.String("error", err.Error()))
	}

	if err != nil {
		attrs := []any{slog.String("error", err.Error())}
		if report != nil {
			attrs = append(attrs, slog.Any("report", *report))
		}
		logger.Error("reconciliation pass failed", attrs...)
		os.Exit(1)
	}

	logger.Info("reconciliation pass completed",
		slog.Int("records_done", report.RecordsDone),
		slog.Int("entries_skipped", report.EntriesSkipped),
	)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
