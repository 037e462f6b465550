// Package changelog persists change events and their processing status.
package changelog

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

const table = "change_events"

var columns = []string{"id", "category", "action", "source_record_id", "payload", "delta", "status", "created_at", "completed_at"}

// Repo provides change event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new change event repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ListPending returns pending events ordered by creation time, then ID.
// Empty filter fields do not constrain the result.
func (r *Repo) ListPending(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error) {
	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": string(domain.EventStatusPending)}).
		OrderBy("created_at", "id")

	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = string(c)
		}
		b = b.Where(squirrel.Eq{"category": cats})
	}
	if f.CreatedBefore != nil {
		b = b.Where(squirrel.Lt{"created_at": *f.CreatedBefore})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pending events: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	defer rows.Close()

	var events []domain.ChangeEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}

	return events, nil
}

// MarkCompleted moves the given events from pending to completed and returns
// how many rows changed. Events already completed are left untouched, so
// repeating the call is harmless.
func (r *Repo) MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.EventStatusCompleted)).
		Set("completed_at", at).
		Where("id = ANY(?)", ids).
		Where(squirrel.Eq{"status": string(domain.EventStatusPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark completed: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark completed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ResetAll sets every event back to pending. Used by the development reset.
func (r *Repo) ResetAll(ctx context.Context) (int, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.EventStatusPending)).
		Set("completed_at", nil).
		Where(squirrel.NotEq{"status": string(domain.EventStatusPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build reset events: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset events: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanEvent(row pgx.Row) (domain.ChangeEvent, error) {
	var (
		e                        domain.ChangeEvent
		category, action, status string
		payload, delta           []byte
	)
	err := row.Scan(&e.ID, &category, &action, &e.SourceRecordID, &payload, &delta, &status, &e.CreatedAt, &e.CompletedAt)
	if err != nil {
		return domain.ChangeEvent{}, err
	}

	e.Category = domain.Category(category)
	e.Action = domain.Action(action)
	e.Status = domain.EventStatus(status)
	e.Payload = payload

	if len(delta) > 0 {
		if err := json.Unmarshal(delta, &e.Delta); err != nil {
			return domain.ChangeEvent{}, fmt.Errorf("event %s: decode delta: %w", e.ID, err)
		}
	}

	return e, nil
}
