package dedupe

import (
	"slices"
	"sync"
)

// Locker hands out blocking read/write locks per key. Many readers of a key
// run together; a writer waits for them and excludes everyone else.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	rw   sync.RWMutex
	refs int
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Lock takes key exclusively and returns its release func.
func (l *Locker) Lock(key string) func() {
	kl := l.acquire(key)
	kl.rw.Lock()
	return func() {
		kl.rw.Unlock()
		l.drop(key)
	}
}

// RLock takes shared locks on keys, in sorted order so callers holding
// several keys cannot deadlock. Duplicate keys are taken once.
func (l *Locker) RLock(keys ...string) func() {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	held := make([]*keyLock, len(keys))
	for i, key := range keys {
		held[i] = l.acquire(key)
		held[i].rw.RLock()
	}
	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			held[i].rw.RUnlock()
			l.drop(keys[i])
		}
	}
}

// Len returns the number of keys currently locked or waited on.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) acquire(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *Locker) drop(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl := l.locks[key]
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
