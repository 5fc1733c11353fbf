package contracts

import (
	"context"
	"time"
)

// LockerService hands out Redis leases identified by a random token.
type LockerService interface {
	Acquire(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	// Release is a no-op once the lease expired or passed to another holder.
	Release(ctx context.Context, key, lockValue string) error
	// Extend extends the lease and fails if lockValue no longer holds it.
	Extend(ctx context.Context, key, lockValue string, expiration time.Duration) error
}
