// Package subject reads watch-list subjects from PostgreSQL.
// Subjects are owned upstream; the engine never writes them.
package subject

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

const table = "watchlist_subjects"

var columns = []string{"id", "name_en", "name_zh", "search_key", "ongoing_monitoring", "created_at", "updated_at"}

// Repo provides subject reads backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new subject repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ListMonitored returns every subject flagged for ongoing monitoring,
// ordered by ID.
func (r *Repo) ListMonitored(ctx context.Context) ([]domain.Subject, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"ongoing_monitoring": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list subjects: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	return subjects, nil
}

func scanSubject(row pgx.Row) (domain.Subject, error) {
	var (
		s         domain.Subject
		searchKey []byte
	)
	err := row.Scan(&s.ID, &s.NameEN, &s.NameZH, &searchKey, &s.OngoingMonitoring, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Subject{}, err
	}
	s.SearchKey = searchKey
	return s, nil
}
