package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRevoker keeps revocations in process memory.
type MemoryRevoker struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

// MemoryOption configures a MemoryRevoker.
type MemoryOption func(*MemoryRevoker)

// WithClock overrides the clock used to expire revocations.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryRevoker) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryRevoker creates an empty MemoryRevoker.
func NewMemoryRevoker(opts ...MemoryOption) *MemoryRevoker {
	m := &MemoryRevoker{now: time.Now, revoked: make(map[string]time.Time)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	if id == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.purge(now)
	if until.After(now) {
		m.revoked[id] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[id]
	if !ok {
		return false, nil
	}
	if !until.After(m.now()) {
		delete(m.revoked, id)
		return false, nil
	}
	return true, nil
}

// Len returns the number of live revocations.
func (m *MemoryRevoker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge(m.now())
	return len(m.revoked)
}

func (m *MemoryRevoker) Close() error { return nil }

// purge drops expired entries; callers hold mu.
func (m *MemoryRevoker) purge(now time.Time) {
	for id, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, id)
		}
	}
}
