package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddSubjects("scanned", 1)
		m.AddEvents("matched", 1)
		m.AddRecordsCreated(1)
		m.AddRecordsDone(1)
		m.AddEntries("created", 1)
		m.AddAnomaly("duplicate_add", 1)
		m.ObservePass("match", time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Push(context.Background(), "http://unused", "job"))
}

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.AddEvents("scanned", 5)
	m.AddEvents("unparsable", 1)
	m.AddEvents("matched", 0)
	m.AddAnomaly("mod_without_add", 2)
	m.AddRecordsCreated(3)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.Events.WithLabelValues("scanned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("unparsable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Anomalies.WithLabelValues("mod_without_add")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsCreated))
}

func TestMetrics_Push(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Contains(t, r.URL.Path, "/metrics/job/ongoing_monitoring")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.AddRecordsDone(1)

	require.NoError(t, m.Push(context.Background(), srv.URL, "ongoing_monitoring"))
	assert.EqualValues(t, 1, hits.Load())

	// Empty URL disables pushing.
	require.NoError(t, m.Push(context.Background(), "", "ongoing_monitoring"))
	assert.EqualValues(t, 1, hits.Load())
}
