package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// Now returns the current time truncated to the precision Postgres stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SeedSubject inserts a monitored watch-list subject with the given names.
func SeedSubject(t *testing.T, pool *pgxpool.Pool, nameEN, nameZH string) domain.Subject {
	t.Helper()

	now := Now()
	s := domain.Subject{
		ID:                uuid.New(),
		NameEN:            nameEN,
		NameZH:            nameZH,
		SearchKey:         json.RawMessage(`{"name":"` + nameEN + `"}`),
		OngoingMonitoring: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO watchlist_subjects (id, name_en, name_zh, search_key, ongoing_monitoring, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.NameEN, s.NameZH, []byte(s.SearchKey), s.OngoingMonitoring, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSubject: %v", err)
	}
	return s
}

// SeedEvent inserts a pending change event. Zero ID, status and created_at
// are filled in.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, e domain.ChangeEvent) domain.ChangeEvent {
	t.Helper()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = domain.EventStatusPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = Now()
	}
	if e.SourceRecordID == "" {
		e.SourceRecordID = "src-" + e.ID.String()[:8]
	}

	var delta []byte
	if len(e.Delta) > 0 {
		var err error
		if delta, err = json.Marshal(e.Delta); err != nil {
			t.Fatalf("testhelper: SeedEvent marshal delta: %v", err)
		}
	}

	var payload []byte
	if len(e.Payload) > 0 {
		payload = e.Payload
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO change_events (id, category, action, source_record_id, payload, delta, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, string(e.Category), string(e.Action), e.SourceRecordID, payload, delta, string(e.Status), e.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent: %v", err)
	}
	return e
}

// SeedResult inserts a subject result snapshot.
func SeedResult(t *testing.T, pool *pgxpool.Pool, r domain.SubjectResult) domain.SubjectResult {
	t.Helper()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.LastEventID == uuid.Nil {
		r.LastEventID = uuid.New()
	}
	if r.LastEventAt.IsZero() {
		r.LastEventAt = Now()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = Now()
	}
	r.UpdatedAt = r.CreatedAt

	_, err := pool.Exec(context.Background(),
		`INSERT INTO subject_results (id, subject_id, source_record_id, category, result, last_event_id, last_event_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.SubjectID, r.SourceRecordID, string(r.Category), []byte(r.Result), r.LastEventID, r.LastEventAt, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedResult: %v", err)
	}
	return r
}

// EventStatus reads the status of a change event.
func EventStatus(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) domain.EventStatus {
	t.Helper()

	var status string
	if err := pool.QueryRow(context.Background(),
		`SELECT status FROM change_events WHERE id = $1`, id,
	).Scan(&status); err != nil {
		t.Fatalf("testhelper: EventStatus: %v", err)
	}
	return domain.EventStatus(status)
}
