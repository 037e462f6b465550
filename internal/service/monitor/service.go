// Package monitor runs the matching pass: it cross-matches pending change
// events against monitored subjects, groups the matches into monitoring
// records and marks the consumed events completed.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/matching"
	"github.com/heartmarshall/ongoing-monitor/internal/metrics"
)

// Delivery guarantees for persisting a pass.
const (
	GuaranteeExactlyOnce = "exactly_once"
	GuaranteeAtLeastOnce = "at_least_once"
)

type subjectRepo interface {
	ListMonitored(ctx context.Context) ([]domain.Subject, error)
}

type eventRepo interface {
	ListPending(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error)
	MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error)
}

type recordRepo interface {
	CreateBatch(ctx context.Context, records []domain.MonitoringRecord) (int, error)
	LinkedEventIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type templateLoader interface {
	Load(name string) (map[string]any, error)
}

// Config holds pass settings.
type Config struct {
	Template   string
	Guarantee  string
	Categories []domain.Category
	EventLimit int
}

// Service runs matching passes.
type Service struct {
	cfg       Config
	matcher   *matching.Matcher
	subjects  subjectRepo
	events    eventRepo
	records   recordRepo
	tx        txManager
	templates templateLoader
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewService creates a new matching pass service. m may be nil.
func NewService(
	log *slog.Logger,
	cfg Config,
	matcher *matching.Matcher,
	subjects subjectRepo,
	events eventRepo,
	records recordRepo,
	tx txManager,
	templates templateLoader,
	m *metrics.Metrics,
) *Service {
	if cfg.Guarantee == "" {
		cfg.Guarantee = GuaranteeExactlyOnce
	}
	return &Service{
		cfg:       cfg,
		matcher:   matcher,
		subjects:  subjects,
		events:    events,
		records:   records,
		tx:        tx,
		templates: templates,
		metrics:   m,
		log:       log.With("service", "monitor"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}
