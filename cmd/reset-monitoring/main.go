// Command reset-monitoring rewinds the pipeline for development: every change
// event goes back to pending, all monitoring records are deleted, and
// snapshots created within the --since window are removed.
//
// Usage:
//
//	reset-monitoring --confirm [--since=24h] [--config=config.yaml]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/changelog"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/monitoring"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/result"
	"github.com/heartmarshall/ongoing-monitor/internal/app"
	"github.com/heartmarshall/ongoing-monitor/internal/config"
	"github.com/heartmarshall/ongoing-monitor/internal/service/maintenance"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: CONFIG_PATH or ./config.yaml)")
	since := flag.Duration("since", 24*time.Hour, "delete snapshots created within this window")
	confirm := flag.Bool("confirm", false, "required; the reset is destructive")
	flag.Parse()

	if !*confirm {
		fmt.Fprintln(os.Stderr, "Usage: reset-monitoring --confirm [--since=24h]")
		os.Exit(1)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "reset-monitoring")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := maintenance.NewService(logger,
		changelog.New(pool),
		monitoring.New(pool),
		result.New(pool),
		postgres.NewTxManager(pool),
	)

	if _, err := svc.Reset(ctx, time.Now().UTC().Add(-*since)); err != nil {
		logger.Error("reset failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
