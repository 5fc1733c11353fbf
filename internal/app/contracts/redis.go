package contracts

import (
	"context"
	"time"
)

// RedisRepository stores values JSON-encoded. The *IfValue calls compare
// against the encoded form of value and act atomically on the server.
type RedisRepository interface {
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	DeleteIfValue(ctx context.Context, key string, value interface{}) (bool, error)
	ExpireIfValue(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
}
