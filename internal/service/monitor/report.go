package monitor

import (
	"log/slog"
	"time"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// PassOptions tunes one RunPass call.
type PassOptions struct {
	// DryRun computes and logs records without writing anything.
	DryRun bool
}

// MatchReport summarizes a matching pass.
type MatchReport struct {
	SubjectsTotal    int
	SubjectsSkipped  int
	EventsScanned    int
	EventsUnparsable int
	EventsRecovered  int
	PairsMatched     int
	EventsMatched    int
	RecordsCreated   int
	EventsCompleted  int
	DryRun           bool
	Duration         time.Duration

	// Records holds the records built by the pass, persisted or not.
	Records []domain.MonitoringRecord
}

// LogValue renders the counters without the record bodies.
func (r MatchReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("subjects_total", r.SubjectsTotal),
		slog.Int("subjects_skipped", r.SubjectsSkipped),
		slog.Int("events_scanned", r.EventsScanned),
		slog.Int("events_unparsable", r.EventsUnparsable),
		slog.Int("events_recovered", r.EventsRecovered),
		slog.Int("pairs_matched", r.PairsMatched),
		slog.Int("events_matched", r.EventsMatched),
		slog.Int("records_created", r.RecordsCreated),
		slog.Int("events_completed", r.EventsCompleted),
		slog.Bool("dry_run", r.DryRun),
		slog.Duration("duration", r.Duration),
	)
}
