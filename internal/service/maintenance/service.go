// Package maintenance holds operator tasks that rewind pipeline state.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type eventRepo interface {
	ResetAll(ctx context.Context) (int, error)
}

type recordRepo interface {
	DeleteAll(ctx context.Context) (int, error)
}

type resultRepo interface {
	DeleteCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ResetReport counts the rows a reset touched.
type ResetReport struct {
	EventsReset      int
	RecordsDeleted   int
	SnapshotsDeleted int
}

// Service runs maintenance tasks.
type Service struct {
	events  eventRepo
	records recordRepo
	results resultRepo
	tx      txManager
	log     *slog.Logger
}

// NewService creates a new maintenance service.
func NewService(log *slog.Logger, events eventRepo, records recordRepo, results resultRepo, tx txManager) *Service {
	return &Service{
		events:  events,
		records: records,
		results: results,
		tx:      tx,
		log:     log.With("service", "maintenance"),
	}
}

// Reset returns every change event to pending, drops all monitoring records
// and deletes snapshots created at or after since, in one transaction.
func (s *Service) Reset(ctx context.Context, since time.Time) (*ResetReport, error) {
	var report ResetReport

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.records.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		report.RecordsDeleted = n

		n, err = s.results.DeleteCreatedSince(ctx, since)
		if err != nil {
			return fmt.Errorf("delete snapshots: %w", err)
		}
		report.SnapshotsDeleted = n

		n, err = s.events.ResetAll(ctx)
		if err != nil {
			return fmt.Errorf("reset events: %w", err)
		}
		report.EventsReset = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "monitoring state reset",
		slog.Time("since", since),
		slog.Int("events_reset", report.EventsReset),
		slog.Int("records_deleted", report.RecordsDeleted),
		slog.Int("snapshots_deleted", report.SnapshotsDeleted),
	)
	return &report, nil
}
