package config

import (
	"context"
	"errors"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Bootstrap carries every client the service opened. Clients that were not
// configured stay nil and are skipped on Shutdown.
type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	PostgresDB     *pgxpool.Pool
	Redis          *redis.Client
	RabbitMQ       *amqp091.Connection
	Minio          *minio.Client
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop stops the lifecycle sweeper schedule.
	WorkerStop     func()
	TracerShutdown func(context.Context) error
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	var errs []error

	if b.WorkerStop != nil {
		b.WorkerStop()
		b.Logger.Info("Successfully stopped lifecycle worker")
	}

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			errs = append(errs, err)
		} else {
			b.Logger.Info("Successfully closing RabbitMQ")
		}
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			errs = append(errs, err)
		} else {
			b.Logger.Info("Successfully closing Redis")
		}
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		} else {
			b.Logger.Info("Successfully closing MongoDB")
		}
	}

	if b.PostgresDB != nil {
		b.PostgresDB.Close()
		b.Logger.Info("Successfully closing Postgres pool")
	}

	if b.TracerShutdown != nil {
		if err := b.TracerShutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	_ = b.Logger.Sync()
	return errors.Join(errs...)
}
