package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

func fakeTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(context.WithValue(ctx, txKey{}, true))
		},
	}
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func TestReset_Success(t *testing.T) {
	t.Parallel()

	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events := &eventRepoMock{ResetAllFunc: func(ctx context.Context) (int, error) {
		assert.True(t, inTx(ctx))
		return 12, nil
	}}
	records := &recordRepoMock{DeleteAllFunc: func(ctx context.Context) (int, error) {
		assert.True(t, inTx(ctx))
		return 3, nil
	}}
	results := &resultRepoMock{DeleteCreatedSinceFunc: func(ctx context.Context, _ time.Time) (int, error) {
		assert.True(t, inTx(ctx))
		return 2, nil
	}}
	tx := fakeTx()

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), events, records, results, tx)
	report, err := svc.Reset(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, &ResetReport{EventsReset: 12, RecordsDeleted: 3, SnapshotsDeleted: 2}, report)
	assert.Len(t, tx.RunInTxCalls(), 1)
	require.Len(t, results.DeleteCreatedSinceCalls(), 1)
	assert.Equal(t, since, results.DeleteCreatedSinceCalls()[0].Since)
}

func TestReset_ErrorStopsTransaction(t *testing.T) {
	t.Parallel()

	errDB := errors.New("db down")
	events := &eventRepoMock{ResetAllFunc: func(context.Context) (int, error) { return 0, nil }}
	records := &recordRepoMock{DeleteAllFunc: func(context.Context) (int, error) { return 1, nil }}
	results := &resultRepoMock{DeleteCreatedSinceFunc: func(context.Context, time.Time) (int, error) {
		return 0, errDB
	}}

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), events, records, results, fakeTx())
	report, err := svc.Reset(context.Background(), time.Now())

	require.ErrorIs(t, err, errDB)
	assert.Nil(t, report)
	assert.Empty(t, events.ResetAllCalls())
}
