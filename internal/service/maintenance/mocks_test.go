package maintenance

import (
	"context"
	"sync"
	"time"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	ResetAllFunc func(ctx context.Context) (int, error)

	calls struct {
		ResetAll []struct{ Ctx context.Context }
	}
	lockResetAll sync.RWMutex
}

func (mock *eventRepoMock) ResetAll(ctx context.Context) (int, error) {
	if mock.ResetAllFunc == nil {
		panic("eventRepoMock.ResetAllFunc: method is nil but eventRepo.ResetAll was just called")
	}
	mock.lockResetAll.Lock()
	mock.calls.ResetAll = append(mock.calls.ResetAll, struct{ Ctx context.Context }{ctx})
	mock.lockResetAll.Unlock()
	return mock.ResetAllFunc(ctx)
}

func (mock *eventRepoMock) ResetAllCalls() []struct{ Ctx context.Context } {
	mock.lockResetAll.RLock()
	defer mock.lockResetAll.RUnlock()
	return mock.calls.ResetAll
}

var _ recordRepo = &recordRepoMock{}

type recordRepoMock struct {
	DeleteAllFunc func(ctx context.Context) (int, error)

	calls struct {
		DeleteAll []struct{ Ctx context.Context }
	}
	lockDeleteAll sync.RWMutex
}

func (mock *recordRepoMock) DeleteAll(ctx context.Context) (int, error) {
	if mock.DeleteAllFunc == nil {
		panic("recordRepoMock.DeleteAllFunc: method is nil but recordRepo.DeleteAll was just called")
	}
	mock.lockDeleteAll.Lock()
	mock.calls.DeleteAll = append(mock.calls.DeleteAll, struct{ Ctx context.Context }{ctx})
	mock.lockDeleteAll.Unlock()
	return mock.DeleteAllFunc(ctx)
}

var _ resultRepo = &resultRepoMock{}

type resultRepoMock struct {
	DeleteCreatedSinceFunc func(ctx context.Context, since time.Time) (int, error)

	calls struct {
		DeleteCreatedSince []struct {
			Ctx   context.Context
			Since time.Time
		}
	}
	lockDeleteCreatedSince sync.RWMutex
}

func (mock *resultRepoMock) DeleteCreatedSince(ctx context.Context, since time.Time) (int, error) {
	if mock.DeleteCreatedSinceFunc == nil {
		panic("resultRepoMock.DeleteCreatedSinceFunc: method is nil but resultRepo.DeleteCreatedSince was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Since time.Time
	}{ctx, since}
	mock.lockDeleteCreatedSince.Lock()
	mock.calls.DeleteCreatedSince = append(mock.calls.DeleteCreatedSince, callInfo)
	mock.lockDeleteCreatedSince.Unlock()
	return mock.DeleteCreatedSinceFunc(ctx, since)
}

func (mock *resultRepoMock) DeleteCreatedSinceCalls() []struct {
	Ctx   context.Context
	Since time.Time
} {
	mock.lockDeleteCreatedSince.RLock()
	defer mock.lockDeleteCreatedSince.RUnlock()
	return mock.calls.DeleteCreatedSince
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
			Fn  func(ctx context.Context) error
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Fn  func(ctx context.Context) error
	}{ctx, fn}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
	Fn  func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	defer mock.lockRunInTx.RUnlock()
	return mock.calls.RunInTx
}
