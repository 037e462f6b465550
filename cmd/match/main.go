// Command match runs one matching pass: pending change events are
// cross-matched against monitored subjects, grouped into monitoring records
// and marked completed. It is intended to be invoked by an external
// scheduler.
//
// Usage:
//
//	match [--config=config.yaml] [--dry-run]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/changelog"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/monitoring"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/subject"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/template"
	"github.com/heartmarshall/ongoing-monitor/internal/app"
	"github.com/heartmarshall/ongoing-monitor/internal/config"
	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/matching"
	"github.com/heartmarshall/ongoing-monitor/internal/metrics"
	"github.com/heartmarshall/ongoing-monitor/internal/service/monitor"
	"github.com/heartmarshall/ongoing-monitor/internal/similarity"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: CONFIG_PATH or ./config.yaml)")
	dryRun := flag.Bool("dry-run", false, "compute and log records without writing")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "match")

	comparator, err := similarity.ParseComparator(cfg.Matching.Comparator)
	if err != nil {
		logger.Error("invalid comparator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	opts, err := matching.NewOptions(cfg.Matching.Preset, matching.Thresholds{
		English:    cfg.Matching.EnglishThreshold,
		Chinese:    cfg.Matching.ChineseThreshold,
		Combined:   cfg.Matching.CombinedThreshold,
		Title:      cfg.Matching.TitleThreshold,
		Comparator: comparator,
	}, cfg.Matching.Workers)
	if err != nil {
		logger.Error("resolve matching preset", slog.String("error", err.Error()))
		os.Exit(1)
	}

	categories := make([]domain.Category, len(cfg.Matching.Categories))
	for i, c := range cfg.Matching.Categories {
		categories[i] = domain.Category(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Matching.Timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	m := metrics.New()

	svc := monitor.NewService(logger,
		monitor.Config{
			Template:   cfg.Template.Name,
			Guarantee:  cfg.Matching.Guarantee,
			Categories: categories,
			EventLimit: cfg.Matching.EventLimit,
		},
		matching.NewMatcher(logger, opts),
		subject.New(pool),
		changelog.New(pool),
		monitoring.New(pool),
		postgres.NewTxManager(pool),
		template.NewLoader(cfg.Template.Dir),
		m,
	)

	report, err := svc.RunPass(ctx, monitor.PassOptions{DryRun: *dryRun})

	if err := m.Push(context.WithoutCancel(ctx), cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn("push metrics", slog.String("error", err.Error()))
	}

	if err != nil {
		attrs := []any{slog.String("error", err.Error())}
		if report != nil {
			attrs = append(attrs, slog.Any("report", *report))
		}
		logger.Error("matching pass failed", attrs...)
		os.Exit(1)
	}

	logger.Info("matching pass completed",
		slog.Int("records_created", report.RecordsCreated),
		slog.Int("events_completed", report.EventsCompleted),
	)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
