// Package reconcile folds monitoring records into per-source-record
// snapshots and moves the records from todo to done.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/metrics"
)

type recordRepo interface {
	FindTodo(ctx context.Context, f domain.RecordFilter) ([]domain.MonitoringRecord, error)
	MarkDone(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type resultRepo interface {
	ListByKeys(ctx context.Context, keys []domain.ResultKey) ([]domain.SubjectResult, error)
	Insert(ctx context.Context, res domain.SubjectResult) (bool, error)
	Update(ctx context.Context, res domain.SubjectResult) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type locker interface {
	Lock(ctx context.Context, keys []string) (func(ctx context.Context) error, error)
}

// Config holds pass settings.
type Config struct {
	Workers   int
	BatchSize int
}

// Service runs reconciliation passes.
type Service struct {
	cfg     Config
	records recordRepo
	results resultRepo
	tx      txManager
	locks   locker
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new reconciliation service. m may be nil.
func NewService(
	log *slog.Logger,
	cfg Config,
	records recordRepo,
	results resultRepo,
	tx txManager,
	locks locker,
	m *metrics.Metrics,
) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Service{
		cfg:     cfg,
		records: records,
		results: results,
		tx:      tx,
		locks:   locks,
		metrics: m,
		log:     log.With("service", "reconcile"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}
