package port

import (
	"context"
	"time"
)

// RefreshGate collapses overlapping manual refreshes. Acquire reports
// whether the caller won the key for ttl.
type RefreshGate interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
