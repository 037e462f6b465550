package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

var _ recordRepo = &recordRepoMock{}

type recordRepoMock struct {
	FindTodoFunc func(ctx context.Context, f domain.RecordFilter) ([]domain.MonitoringRecord, error)
	MarkDoneFunc func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	calls struct {
		FindTodo []struct {
			Ctx    context.Context
			Filter domain.RecordFilter
		}
		MarkDone []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
	}
	lockFindTodo sync.RWMutex
	lockMarkDone sync.RWMutex
}

func (mock *recordRepoMock) FindTodo(ctx context.Context, f domain.RecordFilter) ([]domain.MonitoringRecord, error) {
	if mock.FindTodoFunc == nil {
		panic("recordRepoMock.FindTodoFunc: method is nil but recordRepo.FindTodo was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.RecordFilter
	}{ctx, f}
	mock.lockFindTodo.Lock()
	mock.calls.FindTodo = append(mock.calls.FindTodo, callInfo)
	mock.lockFindTodo.Unlock()
	return mock.FindTodoFunc(ctx, f)
}

func (mock *recordRepoMock) FindTodoCalls() []struct {
	Ctx    context.Context
	Filter domain.RecordFilter
} {
	mock.lockFindTodo.RLock()
	defer mock.lockFindTodo.RUnlock()
	return mock.calls.FindTodo
}

func (mock *recordRepoMock) MarkDone(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if mock.MarkDoneFunc == nil {
		panic("recordRepoMock.MarkDoneFunc: method is nil but recordRepo.MarkDone was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{ctx, id, at}
	mock.lockMarkDone.Lock()
	mock.calls.MarkDone = append(mock.calls.MarkDone, callInfo)
	mock.lockMarkDone.Unlock()
	return mock.MarkDoneFunc(ctx, id, at)
}

func (mock *recordRepoMock) MarkDoneCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	At  time.Time
} {
	mock.lockMarkDone.RLock()
	defer mock.lockMarkDone.RUnlock()
	return mock.calls.MarkDone
}

var _ resultRepo = &resultRepoMock{}

type resultRepoMock struct {
	ListByKeysFunc func(ctx context.Context, keys []domain.ResultKey) ([]domain.SubjectResult, error)
	InsertFunc     func(ctx context.Context, res domain.SubjectResult) (bool, error)
	UpdateFunc     func(ctx context.Context, res domain.SubjectResult) (bool, error)

	calls struct {
		ListByKeys []struct {
			Ctx  context.Context
			Keys []domain.ResultKey
		}
		Insert []struct {
			Ctx context.Context
			Res domain.SubjectResult
		}
		Update []struct {
			Ctx context.Context
			Res domain.SubjectResult
		}
	}
	lockListByKeys sync.RWMutex
	lockInsert     sync.RWMutex
	lockUpdate     sync.RWMutex
}

func (mock *resultRepoMock) ListByKeys(ctx context.Context, keys []domain.ResultKey) ([]domain.SubjectResult, error) {
	if mock.ListByKeysFunc == nil {
		panic("resultRepoMock.ListByKeysFunc: method is nil but resultRepo.ListByKeys was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Keys []domain.ResultKey
	}{ctx, keys}
	mock.lockListByKeys.Lock()
	mock.calls.ListByKeys = append(mock.calls.ListByKeys, callInfo)
	mock.lockListByKeys.Unlock()
	return mock.ListByKeysFunc(ctx, keys)
}

func (mock *resultRepoMock) Insert(ctx context.Context, res domain.SubjectResult) (bool, error) {
	if mock.InsertFunc == nil {
		panic("resultRepoMock.InsertFunc: method is nil but resultRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Res domain.SubjectResult
	}{ctx, res}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, res)
}

func (mock *resultRepoMock) InsertCalls() []struct {
	Ctx context.Context
	Res domain.SubjectResult
} {
	mock.lockInsert.RLock()
	defer mock.lockInsert.RUnlock()
	return mock.calls.Insert
}

func (mock *resultRepoMock) Update(ctx context.Context, res domain.SubjectResult) (bool, error) {
	if mock.UpdateFunc == nil {
		panic("resultRepoMock.UpdateFunc: method is nil but resultRepo.Update was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Res domain.SubjectResult
	}{ctx, res}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, res)
}

func (mock *resultRepoMock) UpdateCalls() []struct {
	Ctx context.Context
	Res domain.SubjectResult
} {
	mock.lockUpdate.RLock()
	defer mock.lockUpdate.RUnlock()
	return mock.calls.Update
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

var _ locker = &lockerMock{}

type lockerMock struct {
	LockFunc func(ctx context.Context, keys []string) (func(ctx context.Context) error, error)

	calls struct {
		Lock []struct {
			Ctx  context.Context
			Keys []string
		}
	}
	lockLock sync.RWMutex
}

func (mock *lockerMock) Lock(ctx context.Context, keys []string) (func(ctx context.Context) error, error) {
	if mock.LockFunc == nil {
		panic("lockerMock.LockFunc: method is nil but locker.Lock was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Keys []string
	}{ctx, keys}
	mock.lockLock.Lock()
	mock.calls.Lock = append(mock.calls.Lock, callInfo)
	mock.lockLock.Unlock()
	return mock.LockFunc(ctx, keys)
}

func (mock *lockerMock) LockCalls() []struct {
	Ctx  context.Context
	Keys []string
} {
	mock.lockLock.RLock()
	defer mock.lockLock.RUnlock()
	return mock.calls.Lock
}
