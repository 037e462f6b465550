package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/matching"
	"github.com/heartmarshall/ongoing-monitor/pkg/ctxutil"
)

// RunPass executes one matching pass over every monitored subject and the
// pending events created before the pass started.
//
// Under exactly_once the records, their event links and the completion marks
// are written in one transaction. Under at_least_once they are written
// separately; events left pending but already linked to a record by an
// interrupted pass are completed and excluded at the start of the next one.
// Unparsable and unmatched events stay pending.
func (s *Service) RunPass(ctx context.Context, opts PassOptions) (*MatchReport, error) {
	ctx, passID := ctxutil.EnsurePassID(ctx)
	start := s.now()
	report := &MatchReport{DryRun: opts.DryRun}

	// A failed pass still returns the counts gathered so far.
	fail := func(err error) (*MatchReport, error) {
		report.Duration = s.now().Sub(start)
		s.record(report)
		s.log.ErrorContext(ctx, "matching pass failed",
			slog.String("pass_id", passID.String()),
			slog.String("error", err.Error()),
			slog.Any("report", *report),
		)
		return report, err
	}

	attrs, err := s.templates.Load(s.cfg.Template)
	if err != nil {
		return fail(fmt.Errorf("load template: %w", err))
	}

	subjects, err := s.subjects.ListMonitored(ctx)
	if err != nil {
		return fail(fmt.Errorf("fetch subjects: %w", err))
	}

	events, err := s.events.ListPending(ctx, domain.EventFilter{
		Categories:    s.cfg.Categories,
		CreatedBefore: &start,
		Limit:         s.cfg.EventLimit,
	})
	if err != nil {
		return fail(fmt.Errorf("fetch pending events: %w", err))
	}

	events, recovered, err := s.recover(ctx, events, opts.DryRun)
	if err != nil {
		return fail(err)
	}
	report.EventsRecovered = recovered

	pairs, stats, err := s.matcher.Match(ctx, subjects, events)
	report.SubjectsTotal = stats.SubjectsTotal
	report.SubjectsSkipped = stats.SubjectsSkipped
	report.EventsScanned = stats.EventsScanned
	report.EventsUnparsable = stats.EventsUnparsable
	if err != nil {
		return fail(fmt.Errorf("match: %w", err))
	}

	records := matching.Group(pairs, subjects, events, matching.GroupOptions{
		Attributes: attrs,
		Now:        start,
	})
	consumed := matching.ConsumedEvents(records)

	report.PairsMatched = stats.PairsMatched
	report.EventsMatched = len(consumed)
	report.Records = records

	if opts.DryRun {
		for _, rec := range records {
			s.log.InfoContext(ctx, "dry run: monitoring record",
				slog.String("record_id", rec.ID.String()),
				slog.String("subject_id", rec.SubjectID.String()),
				slog.Int("entries", len(rec.Entries)),
			)
		}
	} else if len(records) > 0 {
		if err := s.persist(ctx, records, consumed, report); err != nil {
			return fail(err)
		}
	}

	report.Duration = s.now().Sub(start)
	s.record(report)
	s.log.InfoContext(ctx, "matching pass finished",
		slog.String("pass_id", passID.String()),
		slog.Any("report", *report),
	)

	return report, nil
}

// recover drops events that already belong to a record. Outside dry runs
// they are marked completed so they leave the pending pool for good.
func (s *Service) recover(ctx context.Context, events []domain.ChangeEvent, dryRun bool) ([]domain.ChangeEvent, int, error) {
	if len(events) == 0 {
		return events, 0, nil
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	linked, err := s.records.LinkedEventIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("check linked events: %w", err)
	}
	if len(linked) == 0 {
		return events, 0, nil
	}

	s.log.WarnContext(ctx, "pending events already recorded by an earlier pass",
		slog.Int("count", len(linked)),
		slog.String("guarantee", s.cfg.Guarantee),
	)

	if !dryRun {
		if _, err := s.events.MarkCompleted(ctx, linked, s.now()); err != nil {
			return nil, 0, fmt.Errorf("complete recovered events: %w", err)
		}
	}

	skip := make(map[uuid.UUID]struct{}, len(linked))
	for _, id := range linked {
		skip[id] = struct{}{}
	}
	events = slices.DeleteFunc(events, func(e domain.ChangeEvent) bool {
		_, ok := skip[e.ID]
		return ok
	})
	return events, len(linked), nil
}

func (s *Service) persist(ctx context.Context, records []domain.MonitoringRecord, consumed []uuid.UUID, report *MatchReport) error {
	write := func(ctx context.Context) error {
		created, err := s.records.CreateBatch(ctx, records)
		if err != nil {
			return fmt.Errorf("persist records: %w", err)
		}
		report.RecordsCreated = created
		completed, err := s.events.MarkCompleted(ctx, consumed, s.now())
		if err != nil {
			return fmt.Errorf("mark events completed: %w", err)
		}
		report.EventsCompleted = completed

		if completed != len(consumed) && s.cfg.Guarantee == GuaranteeExactlyOnce {
			return fmt.Errorf("mark events completed: %d of %d events were no longer pending: %w",
				len(consumed)-completed, len(consumed), domain.ErrConflict)
		}
		if completed != len(consumed) {
			s.log.WarnContext(ctx, "some consumed events were already completed",
				slog.Int("consumed", len(consumed)),
				slog.Int("completed", completed),
			)
		}
		return nil
	}

	if s.cfg.Guarantee == GuaranteeAtLeastOnce {
		return write(ctx)
	}

	if err := s.tx.RunInTx(ctx, write); err != nil {
		report.RecordsCreated, report.EventsCompleted = 0, 0
		return err
	}
	return nil
}

func (s *Service) record(r *MatchReport) {
	s.metrics.AddSubjects("scanned", r.SubjectsTotal)
	s.metrics.AddSubjects("skipped", r.SubjectsSkipped)
	s.metrics.AddEvents("scanned", r.EventsScanned)
	s.metrics.AddEvents("unparsable", r.EventsUnparsable)
	s.metrics.AddEvents("recovered", r.EventsRecovered)
	s.metrics.AddEvents("matched", r.EventsMatched)
	s.metrics.AddEvents("completed", r.EventsCompleted)
	s.metrics.AddRecordsCreated(r.RecordsCreated)
	s.metrics.ObservePass("match", r.Duration)
}
