package database

import (
	"context"
	"fmt"
	"mediconnect-service/internal/app/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings. Idempotency records, cached fees and the
// sweeper leader lease all live on this client.
func NewRedisClient(ctx context.Context, driverConfig *config.DriverConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", driverConfig.Redis.Host, driverConfig.Redis.Port),
		Password: driverConfig.Redis.Password,
		DB:       driverConfig.Redis.DB,
		PoolSize: driverConfig.Redis.PoolSize,
	})

	err := client.Ping(ctx).Err()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", client.Options().Addr, err)
	}
	return client, nil
}
