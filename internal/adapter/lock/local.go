package lock

import (
	"context"
	"sync"
)

type localEntry struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process keyed mutex.
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

// NewLocal creates an empty in-process locker.
func NewLocal() *Local {
	return &Local{entries: make(map[string]*localEntry)}
}

// Lock blocks until every key is held or ctx is done. On failure nothing
// stays held.
func (l *Local) Lock(ctx context.Context, keys []string) (func(ctx context.Context) error, error) {
	keys = normalizeKeys(keys)

	held := make([]string, 0, len(keys))
	for _, k := range keys {
		e := l.acquireEntry(k)
		select {
		case e.ch <- struct{}{}:
			held = append(held, k)
		case <-ctx.Done():
			l.releaseEntry(k, false)
			l.unlock(held)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { l.unlock(held) })
		return nil
	}, nil
}

func (l *Local) unlock(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.releaseEntry(keys[i], true)
	}
}

func (l *Local) acquireEntry(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) releaseEntry(key string, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	if held {
		<-e.ch
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
