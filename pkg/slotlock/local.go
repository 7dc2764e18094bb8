package slotlock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type localEntry struct {
	ch   chan struct{}
	refs int
}

// Local блокировки в памяти процесса. Подходит для одного инстанса сервиса.
type Local struct {
	mu      sync.Mutex
	locks   map[string]*localEntry
	timeout time.Duration
}

// NewLocal создает локальный менеджер блокировок.
// timeout <= 0 означает ожидание до отмены контекста.
func NewLocal(timeout time.Duration) *Local {
	return &Local{
		locks:   make(map[string]*localEntry),
		timeout: timeout,
	}
}

// Acquire ждет освобождения ключа не дольше timeout
func (l *Local) Acquire(ctx context.Context, key string) (Release, error) {
	e := l.ref(key)

	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.unref(key, e)
		})
	}, nil
}

func (l *Local) ref(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Local) unref(key string, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size количество активных ключей (для тестов)
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
