package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates exchange runs across instances so one index
// partition is never scanned by two workers at once.
type DistributedLock interface {
	// Acquire attempts to take a named lock with the given TTL. Returns
	// false when another holder has it. The lock expires on its own after
	// TTL if never released.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release gives up a named lock. Best-effort; safe to call on a lock
	// that expired or was never held.
	Release(ctx context.Context, name string) error

	// Extend pushes out the TTL of a held lock, for scans that outlive the
	// initial TTL. Fails if this instance no longer holds the lock.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
