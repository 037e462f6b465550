package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

var _ subjectRepo = &subjectRepoMock{}

type subjectRepoMock struct {
	ListMonitoredFunc func(ctx context.Context) ([]domain.Subject, error)

	calls struct {
		ListMonitored []struct{ Ctx context.Context }
	}
	lockListMonitored sync.RWMutex
}

func (mock *subjectRepoMock) ListMonitored(ctx context.Context) ([]domain.Subject, error) {
	if mock.ListMonitoredFunc == nil {
		panic("subjectRepoMock.ListMonitoredFunc: method is nil but subjectRepo.ListMonitored was just called")
	}
	mock.lockListMonitored.Lock()
	mock.calls.ListMonitored = append(mock.calls.ListMonitored, struct{ Ctx context.Context }{ctx})
	mock.lockListMonitored.Unlock()
	return mock.ListMonitoredFunc(ctx)
}

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	ListPendingFunc   func(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error)
	MarkCompletedFunc func(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error)

	calls struct {
		ListPending []struct {
			Ctx    context.Context
			Filter domain.EventFilter
		}
		MarkCompleted []struct {
			Ctx context.Context
			IDs []uuid.UUID
			At  time.Time
		}
	}
	lockListPending   sync.RWMutex
	lockMarkCompleted sync.RWMutex
}

func (mock *eventRepoMock) ListPending(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error) {
	if mock.ListPendingFunc == nil {
		panic("eventRepoMock.ListPendingFunc: method is nil but eventRepo.ListPending was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.EventFilter
	}{ctx, f}
	mock.lockListPending.Lock()
	mock.calls.ListPending = append(mock.calls.ListPending, callInfo)
	mock.lockListPending.Unlock()
	return mock.ListPendingFunc(ctx, f)
}

func (mock *eventRepoMock) ListPendingCalls() []struct {
	Ctx    context.Context
	Filter domain.EventFilter
} {
	mock.lockListPending.RLock()
	defer mock.lockListPending.RUnlock()
	return mock.calls.ListPending
}

func (mock *eventRepoMock) MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error) {
	if mock.MarkCompletedFunc == nil {
		panic("eventRepoMock.MarkCompletedFunc: method is nil but eventRepo.MarkCompleted was just called")
	}
	callInfo := struct {
		Ctx context.Context
		IDs []uuid.UUID
		At  time.Time
	}{ctx, ids, at}
	mock.lockMarkCompleted.Lock()
	mock.calls.MarkCompleted = append(mock.calls.MarkCompleted, callInfo)
	mock.lockMarkCompleted.Unlock()
	return mock.MarkCompletedFunc(ctx, ids, at)
}

func (mock *eventRepoMock) MarkCompletedCalls() []struct {
	Ctx context.Context
	IDs []uuid.UUID
	At  time.Time
} {
	mock.lockMarkCompleted.RLock()
	defer mock.lockMarkCompleted.RUnlock()
	return mock.calls.MarkCompleted
}

var _ recordRepo = &recordRepoMock{}

type recordRepoMock struct {
	CreateBatchFunc    func(ctx context.Context, records []domain.MonitoringRecord) (int, error)
	LinkedEventIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	calls struct {
		CreateBatch []struct {
			Ctx     context.Context
			Records []domain.MonitoringRecord
		}
		LinkedEventIDs []struct {
			Ctx context.Context
			IDs []uuid.UUID
		}
	}
	lockCreateBatch    sync.RWMutex
	lockLinkedEventIDs sync.RWMutex
}

func (mock *recordRepoMock) CreateBatch(ctx context.Context, records []domain.MonitoringRecord) (int, error) {
	if mock.CreateBatchFunc == nil {
		panic("recordRepoMock.CreateBatchFunc: method is nil but recordRepo.CreateBatch was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Records []domain.MonitoringRecord
	}{ctx, records}
	mock.lockCreateBatch.Lock()
	mock.calls.CreateBatch = append(mock.calls.CreateBatch, callInfo)
	mock.lockCreateBatch.Unlock()
	return mock.CreateBatchFunc(ctx, records)
}

func (mock *recordRepoMock) CreateBatchCalls() []struct {
	Ctx     context.Context
	Records []domain.MonitoringRecord
} {
	mock.lockCreateBatch.RLock()
	defer mock.lockCreateBatch.RUnlock()
	return mock.calls.CreateBatch
}

func (mock *recordRepoMock) LinkedEventIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if mock.LinkedEventIDsFunc == nil {
		panic("recordRepoMock.LinkedEventIDsFunc: method is nil but recordRepo.LinkedEventIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		IDs []uuid.UUID
	}{ctx, ids}
	mock.lockLinkedEventIDs.Lock()
	mock.calls.LinkedEventIDs = append(mock.calls.LinkedEventIDs, callInfo)
	mock.lockLinkedEventIDs.Unlock()
	return mock.LinkedEventIDsFunc(ctx, ids)
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{ Ctx context.Context }
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{ Ctx context.Context }{ctx})
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct{ Ctx context.Context } {
	mock.lockRunInTx.RLock()
	defer mock.lockRunInTx.RUnlock()
	return mock.calls.RunInTx
}

var _ templateLoader = &templateLoaderMock{}

type templateLoaderMock struct {
	LoadFunc func(name string) (map[string]any, error)
}

func (mock *templateLoaderMock) Load(name string) (map[string]any, error) {
	if mock.LoadFunc == nil {
		panic("templateLoaderMock.LoadFunc: method is nil but templateLoader.Load was just called")
	}
	return mock.LoadFunc(name)
}
