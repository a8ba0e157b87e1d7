package gate

import (
	"context"
	"sync"
	"time"

	"coinlisting/internal/domain/port"
)

var _ port.RefreshGate = (*MemoryGate)(nil)

// MemoryGate is the single-process RefreshGate used when Redis is off.
type MemoryGate struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

func NewMemoryGate() *MemoryGate {
	return &MemoryGate{
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (g *MemoryGate) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, until := range g.locks {
		if !now.Before(until) {
			delete(g.locks, k)
		}
	}

	if _, held := g.locks[key]; held {
		return false, nil
	}
	g.locks[key] = now.Add(ttl)
	return true, nil
}

func (g *MemoryGate) Ping(context.Context) error { return nil }

func (g *MemoryGate) Close() error { return nil }
