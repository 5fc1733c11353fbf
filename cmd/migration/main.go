package main

import (
	"context"
	"flag"
	stdlog "log"
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/app/drivers/database"
	"mediconnect-service/internal/app/drivers/logger"
	"mediconnect-service/internal/migration"
	"mediconnect-service/internal/pkg/constvars"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "roll back the latest postgres migration")
	flag.Parse()

	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		stdlog.Fatalf("Error initializing logger: %v", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch internalConfig.Storage.Driver {
	case constvars.StorageDriverPostgres:
		db, err := database.NewPostgresDB(driverConfig)
		if err != nil {
			log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()

		direction, limit := migrate.Up, 0
		if *down {
			direction, limit = migrate.Down, 1
		}
		n, err := migration.RunPostgres(db, direction, limit)
		if err != nil {
			log.Fatal("Failed to migrate postgres", zap.Error(err))
		}
		log.Info("Applied postgres migrations", zap.Int("count", n))

	case constvars.StorageDriverMongo:
		client, err := database.NewMongoDB(ctx, driverConfig)
		if err != nil {
			log.Fatal("Failed to connect to mongo", zap.Error(err))
		}
		defer client.Disconnect(context.Background())

		n, err := migration.EnsureMongoIndexes(ctx, client, driverConfig.MongoDB.DbName)
		if err != nil {
			log.Fatal("Failed to create mongo indexes", zap.Error(err))
		}
		log.Info("Ensured mongo indexes", zap.Int("count", n))

	default:
		log.Info("Nothing to migrate", zap.String("driver", internalConfig.Storage.Driver))
	}
}
