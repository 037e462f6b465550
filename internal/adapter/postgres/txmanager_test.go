package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres"
	"github.com/heartmarshall/ongoing-monitor/internal/adapter/postgres/testhelper"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTx_Mock_CommitAndRollback(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("business logic error")

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		fnErr   error
		wantErr error
	}{
		{
			name: "commit",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		{
			name: "rollback on error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fnErr:   sentinel,
			wantErr: sentinel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := newMockPool(t)
			tt.setup(mock)
			tm := postgres.NewTxManager(mock)

			err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
				if !postgres.InTx(ctx) {
					t.Error("callback context should carry the transaction")
				}
				return tt.fnErr
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RunInTx error = %v, want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRunInTx_Mock_NestedJoinsOuter(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	tm := postgres.NewTxManager(mock)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return tm.RunInTx(ctx, func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("nested RunInTx should not begin a second transaction: %v", err)
	}
}

func TestRunInTx_Mock_BeginError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
	tm := postgres.NewTxManager(mock)

	called := false
	err := tm.RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected begin error")
	}
	if called {
		t.Error("callback must not run when begin fails")
	}
}

// eventExists checks whether a change_events row with the given ID exists.
func eventExists(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM change_events WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("eventExists query: %v", err)
	}
	return exists
}

func insertEvent(ctx context.Context, q postgres.Querier, id uuid.UUID) error {
	_, err := q.Exec(ctx,
		`INSERT INTO change_events (id, category, action, source_record_id) VALUES ($1, 'judgment', 'ADD', $2)`,
		id, "tx-"+id.String()[:8],
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertEvent(ctx, postgres.QuerierFromCtx(ctx, pool), id)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !eventExists(t, pool, id) {
		t.Fatal("expected event to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertEvent(ctx, postgres.QuerierFromCtx(ctx, pool), id); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if eventExists(t, pool, id) {
		t.Fatal("expected event NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	defer func() {
		r := recover()
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}
		if eventExists(t, pool, id) {
			t.Fatal("expected event NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertEvent(ctx, postgres.QuerierFromCtx(ctx, pool), id); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}
