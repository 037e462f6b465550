// Package metrics exposes per-pass counters for the batch jobs.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Subjects       *prometheus.CounterVec // outcome: scanned, skipped
	Events         *prometheus.CounterVec // outcome: scanned, unparsable, matched, completed
	RecordsCreated prometheus.Counter
	RecordsDone    prometheus.Counter
	Entries        *prometheus.CounterVec // outcome: created, updated, skipped
	Anomalies      *prometheus.CounterVec // kind
	PassDuration   *prometheus.HistogramVec
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Subjects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ongoing_monitoring_subjects_total",
			Help: "Watch-list subjects considered by matching passes",
		}, []string{"outcome"}),

		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ongoing_monitoring_events_total",
			Help: "Change events seen by matching passes by outcome",
		}, []string{"outcome"}),

		RecordsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ongoing_monitoring_records_created_total",
			Help: "Monitoring records created",
		}),

		RecordsDone: f.NewCounter(prometheus.CounterOpts{
			Name: "ongoing_monitoring_records_done_total",
			Help: "Monitoring records reconciled to done",
		}),

		Entries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ongoing_monitoring_entries_total",
			Help: "Monitoring entries applied to snapshots by outcome",
		}, []string{"outcome"}),

		Anomalies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ongoing_monitoring_anomalies_total",
			Help: "Entries skipped during reconciliation by anomaly kind",
		}, []string{"kind"}),

		PassDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ongoing_monitoring_pass_duration_seconds",
			Help:    "Duration of matching and reconciliation passes",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
		}, []string{"pass"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// AddSubjects counts subjects by outcome.
func (m *Metrics) AddSubjects(outcome string, n int) {
	if m != nil && n > 0 {
		m.Subjects.WithLabelValues(outcome).Add(float64(n))
	}
}

// AddEvents counts events by outcome.
func (m *Metrics) AddEvents(outcome string, n int) {
	if m != nil && n > 0 {
		m.Events.WithLabelValues(outcome).Add(float64(n))
	}
}

// AddRecordsCreated counts newly stored monitoring records.
func (m *Metrics) AddRecordsCreated(n int) {
	if m != nil && n > 0 {
		m.RecordsCreated.Add(float64(n))
	}
}

// AddRecordsDone counts records moved to done.
func (m *Metrics) AddRecordsDone(n int) {
	if m != nil && n > 0 {
		m.RecordsDone.Add(float64(n))
	}
}

// AddEntries counts entries by outcome.
func (m *Metrics) AddEntries(outcome string, n int) {
	if m != nil && n > 0 {
		m.Entries.WithLabelValues(outcome).Add(float64(n))
	}
}

// AddAnomaly counts skipped entries of one kind.
func (m *Metrics) AddAnomaly(kind string, n int) {
	if m != nil && n > 0 {
		m.Anomalies.WithLabelValues(kind).Add(float64(n))
	}
}

// ObservePass records how long a pass took.
func (m *Metrics) ObservePass(pass string, d time.Duration) {
	if m != nil {
		m.PassDuration.WithLabelValues(pass).Observe(d.Seconds())
	}
}

// Push sends every collector to a Pushgateway under job. An empty url is a no-op.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
