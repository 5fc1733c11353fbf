package database

import (
	"context"
	"database/sql"
	"fmt"
	"mediconnect-service/internal/app/config"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func postgresConnectionString(driverConfig *config.DriverConfig) string {
	sslMode := driverConfig.PostgresDB.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		driverConfig.PostgresDB.Host,
		driverConfig.PostgresDB.Port,
		driverConfig.PostgresDB.Username,
		driverConfig.PostgresDB.Password,
		driverConfig.PostgresDB.DbName,
		sslMode,
	)
}

// NewPostgresPool opens the pgx pool used by the repositories.
func NewPostgresPool(ctx context.Context, driverConfig *config.DriverConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(postgresConnectionString(driverConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	if driverConfig.PostgresDB.MaxConns > 0 {
		poolConfig.MaxConns = int32(driverConfig.PostgresDB.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	return pool, nil
}

// NewPostgresDB opens a database/sql handle for schema migrations.
func NewPostgresDB(driverConfig *config.DriverConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresConnectionString(driverConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database connection: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	return db, nil
}
