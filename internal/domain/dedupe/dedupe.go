// Package dedupe guards keys against concurrent duplicate work.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard serialises work on a key: while one caller holds a claim, other
// claims for the same key fail.
type Guard interface {
	// Claim atomically takes the key. It returns false if the key is already held.
	Claim(ctx context.Context, key string) bool

	// Release frees a key taken by Claim. Releasing a free key is a no-op.
	Release(ctx context.Context, key string)

	// Size returns the number of keys currently held.
	Size() int64
}

type inMemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
	size atomic.Int64
}

// NewInMemoryGuard creates an in-process Guard.
func NewInMemoryGuard() Guard {
	return &inMemoryGuard{held: make(map[string]struct{})}
}

func (g *inMemoryGuard) Claim(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	g.size.Add(1)
	return true
}

func (g *inMemoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		delete(g.held, key)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
