// Package monitoring persists monitoring records and the record/event links
// that keep each change event in at most one record.
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

const (
	table      = "monitoring_records"
	linksTable = "monitoring_record_events"
)

var columns = []string{"id", "subject_id", "search_key", "status", "attributes", "entries", "created_at", "updated_at"}

// insertRecordSQL inserts one record and links its events in a single
// statement. A record whose ID already exists inserts nothing, links included.
// A link for an event that belongs to another record fails the statement.
const insertRecordSQL = `WITH rec AS (
	INSERT INTO monitoring_records (id, subject_id, search_key, status, attributes, entries, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING
	RETURNING id
)
INSERT INTO monitoring_record_events (record_id, event_id)
SELECT rec.id, e FROM rec, unnest($9::uuid[]) AS e`

// Repo provides monitoring record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new monitoring record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// CreateBatch inserts records with their event links using pgx.Batch and
// returns how many records were newly created. Records already present
// (same ID) are skipped.
func (r *Repo) CreateBatch(ctx context.Context, records []domain.MonitoringRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		attrs, err := json.Marshal(rec.Attributes)
		if err != nil {
			return 0, fmt.Errorf("monitoring_record %s: encode attributes: %w", rec.ID, err)
		}
		entries, err := json.Marshal(rec.Entries)
		if err != nil {
			return 0, fmt.Errorf("monitoring_record %s: encode entries: %w", rec.ID, err)
		}

		batch.Queue(insertRecordSQL,
			rec.ID, rec.SubjectID, nullJSON(rec.SearchKey), string(rec.Status), attrs, entries,
			rec.CreatedAt, rec.UpdatedAt, rec.EventIDs(),
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.db).SendBatch(ctx, batch)
	defer results.Close()

	var created int
	for _, rec := range records {
		tag, err := results.Exec()
		if err != nil {
			return created, postgres.MapError(err, "monitoring_record", rec.ID)
		}
		if tag.RowsAffected() > 0 {
			created++
		}
	}

	return created, nil
}

// LinkedEventIDs returns the subset of ids already linked to some record.
func (r *Repo) LinkedEventIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := postgres.Builder().
		Select("event_id").
		From(linksTable).
		Where("event_id = ANY(?)", ids).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build linked events: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("linked events: %w", err)
	}

	linked, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("linked events: %w", err)
	}
	return linked, nil
}

// FindTodo returns records with the filter's status (todo when empty),
// oldest first.
func (r *Repo) FindTodo(ctx context.Context, f domain.RecordFilter) ([]domain.MonitoringRecord, error) {
	status := f.Status
	if status == "" {
		status = domain.RecordStatusTodo
	}

	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": string(status)}).
		OrderBy("created_at", "id")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find records: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer rows.Close()

	var records []domain.MonitoringRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monitoring record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	return records, nil
}

// MarkDone moves a record from todo to done. It reports false when the
// record was not in todo, e.g. another worker finished it first.
func (r *Repo) MarkDone(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.RecordStatusDone)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": string(domain.RecordStatusTodo)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build mark done: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "monitoring_record", id)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteAll removes every monitoring record. Links cascade.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	query, args, err := postgres.Builder().Delete(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete records: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanRecord(row pgx.Row) (domain.MonitoringRecord, error) {
	var (
		rec                 domain.MonitoringRecord
		status              string
		searchKey           []byte
		attributes, entries []byte
	)
	err := row.Scan(&rec.ID, &rec.SubjectID, &searchKey, &status, &attributes, &entries, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.MonitoringRecord{}, err
	}

	rec.Status = domain.RecordStatus(status)
	rec.SearchKey = searchKey

	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &rec.Attributes); err != nil {
			return domain.MonitoringRecord{}, fmt.Errorf("record %s: decode attributes: %w", rec.ID, err)
		}
	}
	if len(entries) > 0 {
		if err := json.Unmarshal(entries, &rec.Entries); err != nil {
			return domain.MonitoringRecord{}, fmt.Errorf("record %s: decode entries: %w", rec.ID, err)
		}
	}

	return rec, nil
}

func nullJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
