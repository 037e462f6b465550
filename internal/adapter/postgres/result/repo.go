// Package result persists subject result snapshots: the latest known state
// of a source record for one subject.
package result

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

const table = "subject_results"

var columns = []string{
	"id", "subject_id", "source_record_id", "category", "result",
	"last_event_id", "last_event_at", "created_at", "updated_at",
}

// Repo provides snapshot persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new snapshot repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ListByKeys returns the snapshots that exist for the given keys.
func (r *Repo) ListByKeys(ctx context.Context, keys []domain.ResultKey) ([]domain.SubjectResult, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	subjectIDs := make([]uuid.UUID, len(keys))
	sourceIDs := make([]string, len(keys))
	for i, k := range keys {
		subjectIDs[i] = k.SubjectID
		sourceIDs[i] = k.SourceRecordID
	}

	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where("(subject_id, source_record_id) IN (SELECT * FROM unnest(?::uuid[], ?::text[]))", subjectIDs, sourceIDs).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list results: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []domain.SubjectResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	return results, nil
}

// Insert creates a snapshot. It reports false when a snapshot for the same
// key already exists, leaving it untouched.
func (r *Repo) Insert(ctx context.Context, res domain.SubjectResult) (bool, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(res.ID, res.SubjectID, res.SourceRecordID, string(res.Category), []byte(res.Result),
			res.LastEventID, res.LastEventAt, res.CreatedAt, res.UpdatedAt).
		Suffix("ON CONFLICT (subject_id, source_record_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert result: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "subject_result", res.Key())
	}
	return tag.RowsAffected() == 1, nil
}

// Update overwrites the snapshot for res's key. The write only happens when
// the stored snapshot was produced by an earlier event, ordered by
// (last_event_at, last_event_id); otherwise Update reports false.
func (r *Repo) Update(ctx context.Context, res domain.SubjectResult) (bool, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("category", string(res.Category)).
		Set("result", []byte(res.Result)).
		Set("last_event_id", res.LastEventID).
		Set("last_event_at", res.LastEventAt).
		Set("updated_at", res.UpdatedAt).
		Where(squirrel.Eq{"subject_id": res.SubjectID, "source_record_id": res.SourceRecordID}).
		Where("(last_event_at, last_event_id) < (?, ?)", res.LastEventAt, res.LastEventID).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update result: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "subject_result", res.Key())
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteCreatedSince removes snapshots created at or after since.
func (r *Repo) DeleteCreatedSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete results: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanResult(row pgx.Row) (domain.SubjectResult, error) {
	var (
		res      domain.SubjectResult
		category string
		payload  []byte
	)
	err := row.Scan(&res.ID, &res.SubjectID, &res.SourceRecordID, &category, &payload,
		&res.LastEventID, &res.LastEventAt, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return domain.SubjectResult{}, err
	}
	res.Category = domain.Category(category)
	res.Result = payload
	return res, nil
}
