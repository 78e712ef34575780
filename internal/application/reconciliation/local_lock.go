package reconciliation

import (
	"context"
	"sync"
	"time"
)

// LocalLocker candado en memoria para una sola instancia (CLI, desarrollo, tests).
// Con varias réplicas se usa el candado de Redis.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

// NewLocalLocker construye el candado local.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), clock: time.Now}
}

// Acquire toma el candado si está libre o vencido.
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Lock, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, false, nil
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return &localLock{owner: l, key: key, exp: exp}, true, nil
}

type localLock struct {
	owner *LocalLocker
	key   string
	exp   time.Time
}

func (k *localLock) Release(context.Context) error {
	k.owner.mu.Lock()
	defer k.owner.mu.Unlock()
	// solo se libera si nadie lo retomó tras vencer
	if exp, ok := k.owner.held[k.key]; ok && exp.Equal(k.exp) {
		delete(k.owner.held, k.key)
	}
	return nil
}
