package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/pkg/ctxutil"
)

var errAlreadyDone = errors.New("record already done")

// RunPass reconciles todo records in batches until none are left or
// opts.Limit is reached.
//
// Records of different subjects are processed concurrently; records of one
// subject run in creation order. Each record holds locks on every snapshot
// key it touches, reads the snapshots, and writes its mutations together
// with the done mark in one transaction. A record another worker already
// finished is rolled back untouched.
func (s *Service) RunPass(ctx context.Context, opts PassOptions) (*ReconcileReport, error) {
	ctx, passID := ctxutil.EnsurePassID(ctx)
	start := s.now()
	report := &ReconcileReport{Anomalies: make(map[domain.AnomalyKind]int)}
	seen := make(map[uuid.UUID]struct{})

	// A failed pass still returns the records finished before the error.
	fail := func(err error) (*ReconcileReport, error) {
		report.Duration = s.now().Sub(start)
		s.record(report)
		s.log.ErrorContext(ctx, "reconciliation pass failed",
			slog.String("pass_id", passID.String()),
			slog.String("error", err.Error()),
			slog.Any("report", *report),
		)
		return report, err
	}

	for opts.Limit <= 0 || report.RecordsProcessed < opts.Limit {
		size := s.cfg.BatchSize
		if opts.Limit > 0 {
			size = min(size, opts.Limit-report.RecordsProcessed)
		}

		batch, err := s.records.FindTodo(ctx, domain.RecordFilter{Status: domain.RecordStatusTodo, Limit: size})
		if err != nil {
			return fail(fmt.Errorf("fetch todo records: %w", err))
		}
		batch = slices.DeleteFunc(batch, func(r domain.MonitoringRecord) bool {
			_, ok := seen[r.ID]
			return ok
		})
		if len(batch) == 0 {
			break
		}
		for _, r := range batch {
			seen[r.ID] = struct{}{}
		}

		if err := s.runBatch(ctx, batch, report); err != nil {
			return fail(err)
		}
	}

	report.Duration = s.now().Sub(start)
	s.record(report)
	s.log.InfoContext(ctx, "reconciliation pass finished",
		slog.String("pass_id", passID.String()),
		slog.Any("report", *report),
	)

	return report, nil
}

func (s *Service) runBatch(ctx context.Context, batch []domain.MonitoringRecord, report *ReconcileReport) error {
	bySubject := make(map[uuid.UUID][]domain.MonitoringRecord)
	var order []uuid.UUID
	for _, r := range batch {
		if _, ok := bySubject[r.SubjectID]; !ok {
			order = append(order, r.SubjectID)
		}
		bySubject[r.SubjectID] = append(bySubject[r.SubjectID], r)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, subjectID := range order {
		records := bySubject[subjectID]
		g.Go(func() error {
			for _, rec := range records {
				o, err := s.reconcileRecord(gctx, rec)
				if err != nil {
					return fmt.Errorf("reconcile record %s: %w", rec.ID, err)
				}
				mu.Lock()
				report.add(o)
				mu.Unlock()
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) reconcileRecord(ctx context.Context, rec domain.MonitoringRecord) (outcome, error) {
	keys := Keys(rec)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}

	release, err := s.locks.Lock(ctx, names)
	if err != nil {
		return outcome{}, fmt.Errorf("lock snapshots: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.WarnContext(ctx, "release snapshot locks",
				slog.String("record_id", rec.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}()

	var o outcome
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		o = outcome{}

		current, err := s.results.ListByKeys(ctx, keys)
		if err != nil {
			return fmt.Errorf("load snapshots: %w", err)
		}
		snapshots := make(map[domain.ResultKey]domain.SubjectResult, len(current))
		for _, r := range current {
			snapshots[r.Key()] = r
		}

		now := s.now()
		plan := BuildPlan(rec, snapshots, now)
		o.anomalies = plan.Anomalies

		if err := s.apply(ctx, plan.Mutations, &o); err != nil {
			return err
		}

		ok, err := s.records.MarkDone(ctx, rec.ID, now)
		if err != nil {
			return fmt.Errorf("mark done: %w", err)
		}
		if !ok {
			return errAlreadyDone
		}
		o.done = true
		return nil
	})

	if errors.Is(err, errAlreadyDone) {
		s.log.InfoContext(ctx, "record already done, skipped", slog.String("record_id", rec.ID.String()))
		return outcome{alreadyDone: true}, nil
	}
	if err != nil {
		return outcome{}, err
	}

	passID, _ := ctxutil.PassIDFromCtx(ctx)
	for _, a := range o.anomalies {
		s.log.WarnContext(ctx, "monitoring entry not applied",
			slog.String("pass_id", passID.String()),
			slog.String("kind", string(a.Kind)),
			slog.String("record_id", rec.ID.String()),
			slog.String("event_id", a.Entry.EventID.String()),
			slog.String("subject_id", a.Key.SubjectID.String()),
			slog.String("source_record_id", a.Key.SourceRecordID),
			slog.String("action", string(a.Entry.Action)),
		)
	}
	return o, nil
}

// apply writes mutations in order. A write rejected by the store's own guard
// becomes an anomaly; later mutations on the same key are dropped with it
// since they were planned on top of it.
func (s *Service) apply(ctx context.Context, muts []Mutation, o *outcome) error {
	broken := make(map[domain.ResultKey]struct{})

	for _, m := range muts {
		key := m.Result.Key()
		if _, ok := broken[key]; ok {
			o.anomalies = append(o.anomalies, Anomaly{Kind: domain.AnomalyStaleEvent, Key: key, Entry: m.Entry})
			continue
		}

		switch m.Kind {
		case MutationInsert:
			ok, err := s.results.Insert(ctx, m.Result)
			if err != nil {
				return fmt.Errorf("insert snapshot %s: %w", key, err)
			}
			if !ok {
				broken[key] = struct{}{}
				o.anomalies = append(o.anomalies, Anomaly{Kind: domain.AnomalyDuplicateAdd, Key: key, Entry: m.Entry})
				continue
			}
			o.created++
		case MutationUpdate:
			ok, err := s.results.Update(ctx, m.Result)
			if err != nil {
				return fmt.Errorf("update snapshot %s: %w", key, err)
			}
			if !ok {
				broken[key] = struct{}{}
				o.anomalies = append(o.anomalies, Anomaly{Kind: domain.AnomalyStaleEvent, Key: key, Entry: m.Entry})
				continue
			}
			o.updated++
		}
	}
	return nil
}

func (s *Service) record(r *ReconcileReport) {
	s.metrics.AddRecordsDone(r.RecordsDone)
	s.metrics.AddEntries("created", r.EntriesCreated)
	s.metrics.AddEntries("updated", r.EntriesUpdated)
	s.metrics.AddEntries("skipped", r.EntriesSkipped)
	for k, n := range r.Anomalies {
		s.metrics.AddAnomaly(string(k), n)
	}
	s.metrics.ObservePass("reconcile", r.Duration)
}
