// Package migration owns the relational schema and the MongoDB indexes the
// booking repositories depend on.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"mediconnect-service/internal/pkg/constvars"

	migrate "github.com/rubenv/sql-migrate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:embed *.sql
var migrationFiles embed.FS

func Source() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       ".",
	}
}

// RunPostgres applies or rolls back up to limit SQL migrations (0 means all)
// and returns how many ran.
func RunPostgres(db *sql.DB, direction migrate.MigrationDirection, limit int) (int, error) {
	n, err := migrate.ExecMax(db, "postgres", Source(), direction, limit)
	if err != nil {
		return 0, fmt.Errorf("error executing migration: %w", err)
	}
	return n, nil
}

// MongoIndexes lists the indexes per collection. Slot locks, appointments and
// ledger entries use their natural key as _id, which is unique already.
func MongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		constvars.MongoCollectionAppointments: {
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "slotStart", Value: 1}},
				Options: options.Index().SetName("status_slot_start"),
			},
			{
				Keys:    bson.D{{Key: "patientId", Value: 1}},
				Options: options.Index().SetName("patient_id"),
			},
		},
		constvars.MongoCollectionLedgerEntries: {
			{
				Keys:    bson.D{{Key: "referenceId", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("reference_id_created_at"),
			},
		},
		constvars.MongoCollectionCareLinks: {
			{
				Keys:    bson.D{{Key: "pk", Value: 1}, {Key: "sk", Value: 1}},
				Options: options.Index().SetName("pk_sk").SetUnique(true),
			},
		},
	}
}

// EnsureMongoIndexes creates every index in MongoIndexes. Existing indexes
// with the same definition are left alone by the server.
func EnsureMongoIndexes(ctx context.Context, client *mongo.Client, dbName string) (int, error) {
	database := client.Database(dbName)

	created := 0
	for collection, models := range MongoIndexes() {
		names, err := database.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return created, fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		created += len(names)
	}
	return created, nil
}
