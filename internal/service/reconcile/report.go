package reconcile

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// PassOptions tunes one RunPass call.
type PassOptions struct {
	// Limit caps the records processed; zero means all todo records.
	Limit int
}

// ReconcileReport summarizes a reconciliation pass.
type ReconcileReport struct {
	RecordsProcessed   int
	RecordsDone        int
	RecordsAlreadyDone int
	EntriesCreated     int
	EntriesUpdated     int
	EntriesSkipped     int
	Anomalies          map[domain.AnomalyKind]int
	Duration           time.Duration
}

func (r ReconcileReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("records_processed", r.RecordsProcessed),
		slog.Int("records_done", r.RecordsDone),
		slog.Int("records_already_done", r.RecordsAlreadyDone),
		slog.Int("entries_created", r.EntriesCreated),
		slog.Int("entries_updated", r.EntriesUpdated),
		slog.Int("entries_skipped", r.EntriesSkipped),
	}
	for _, k := range slices.Sorted(maps.Keys(r.Anomalies)) {
		attrs = append(attrs, slog.Int("anomaly_"+string(k), r.Anomalies[k]))
	}
	attrs = append(attrs, slog.Duration("duration", r.Duration))
	return slog.GroupValue(attrs...)
}

type outcome struct {
	done        bool
	alreadyDone bool
	created     int
	updated     int
	anomalies   []Anomaly
}

func (r *ReconcileReport) add(o outcome) {
	r.RecordsProcessed++
	if o.done {
		r.RecordsDone++
	}
	if o.alreadyDone {
		r.RecordsAlreadyDone++
		return
	}
	r.EntriesCreated += o.created
	r.EntriesUpdated += o.updated
	r.EntriesSkipped += len(o.anomalies)
	for _, a := range o.anomalies {
		r.Anomalies[a.Kind]++
	}
}
