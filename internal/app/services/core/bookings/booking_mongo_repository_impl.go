package bookings

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingMongoRepository struct {
	Client       *mongo.Client
	Locks        *mongo.Collection
	Appointments *mongo.Collection
	Ledger       *mongo.Collection
	CareLinks    *mongo.Collection
	now          func() time.Time
}

// NewBookingMongoRepository needs a replica set: CommitBooking and
// RecordRefund run as multi-document transactions.
func NewBookingMongoRepository(db *mongo.Client, dbName string) contracts.ReservationStore {
	database := db.Database(dbName)
	return &BookingMongoRepository{
		Client:       db,
		Locks:        database.Collection(constvars.MongoCollectionSlotLocks),
		Appointments: database.Collection(constvars.MongoCollectionAppointments),
		Ledger:       database.Collection(constvars.MongoCollectionLedgerEntries),
		CareLinks:    database.Collection(constvars.MongoCollectionCareLinks),
		now:          time.Now,
	}
}

func (repo *BookingMongoRepository) Acquire(ctx context.Context, key, holderID string, ttl time.Duration) error {
	now := repo.now().UTC()
	expiresAt := now.Add(ttl)
	lock := models.SlotLock{
		Key:       key,
		HolderID:  holderID,
		Status:    models.SlotLockLocked,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}

	_, err := repo.Locks.InsertOne(ctx, lock)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return exceptions.ErrMongoDBInsertDocument(err)
	}

	// Key exists: only an expired LOCKED entry may be taken over.
	filter := bson.M{
		"_id":       key,
		"status":    models.SlotLockLocked,
		"expiresAt": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{
		"holderId":  holderID,
		"createdAt": now,
		"expiresAt": expiresAt,
	}}
	result, err := repo.Locks.UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return contracts.ErrLockConflict
	}
	return nil
}

func (repo *BookingMongoRepository) Release(ctx context.Context, key string) error {
	_, err := repo.Locks.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

func (repo *BookingMongoRepository) ReleaseIfHeld(ctx context.Context, key, holderID string) error {
	_, err := repo.Locks.DeleteOne(ctx, bson.M{"_id": key, "holderId": holderID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

func (repo *BookingMongoRepository) MarkBooked(ctx context.Context, key, appointmentID string) error {
	result, err := repo.Locks.UpdateOne(ctx, bson.M{"_id": key}, bookLockUpdate(appointmentID))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return contracts.ErrLockNotFound
	}
	return nil
}

func (repo *BookingMongoRepository) FindLock(ctx context.Context, key string) (*models.SlotLock, error) {
	lock := new(models.SlotLock)
	err := repo.Locks.FindOne(ctx, bson.M{"_id": key}).Decode(lock)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return lock, nil
}

func (repo *BookingMongoRepository) CommitBooking(ctx context.Context, commit *contracts.BookingCommit) error {
	session, err := repo.Client.StartSession()
	if err != nil {
		return exceptions.ErrMongoDBStartTransaction(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := repo.Appointments.InsertOne(sessCtx, commit.Appointment); err != nil {
			return nil, exceptions.ErrMongoDBInsertDocument(err)
		}
		if _, err := repo.Ledger.InsertOne(sessCtx, commit.LedgerEntry); err != nil {
			return nil, exceptions.ErrMongoDBInsertDocument(err)
		}
		for _, link := range commit.CareLinks {
			_, err := repo.CareLinks.UpdateOne(sessCtx,
				bson.M{"pk": link.PK, "sk": link.SK},
				bson.M{"$setOnInsert": link},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return nil, exceptions.ErrMongoDBUpdateDocument(err)
			}
		}

		filter := bson.M{
			"_id":      commit.LockKey,
			"holderId": commit.HolderID,
			"status":   models.SlotLockLocked,
		}
		result, err := repo.Locks.UpdateOne(sessCtx, filter, bookLockUpdate(commit.Appointment.ID))
		if err != nil {
			return nil, exceptions.ErrMongoDBUpdateDocument(err)
		}
		if result.MatchedCount == 0 {
			return nil, contracts.ErrLockNotFound
		}
		return nil, nil
	})
	return err
}

func (repo *BookingMongoRepository) FindAppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment := new(models.Appointment)
	err := repo.Appointments.FindOne(ctx, bson.M{"_id": appointmentID}).Decode(appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return appointment, nil
}

func (repo *BookingMongoRepository) FindAppointmentsByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	var appointments []models.Appointment
	findOptions := options.Find().SetSort(bson.D{{Key: "slotStart", Value: 1}})
	cursor, err := repo.Appointments.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	err = cursor.All(ctx, &appointments)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return appointments, nil
}

func (repo *BookingMongoRepository) TransitionAppointment(ctx context.Context, transition *models.AppointmentTransition) (*models.Appointment, error) {
	set := bson.M{
		"status":    transition.To,
		"updatedAt": transition.UpdatedAt,
	}
	if transition.RefundReference != nil {
		set["refundReference"] = *transition.RefundReference
	}
	if transition.PatientArrived != nil {
		set["patientArrived"] = *transition.PatientArrived
	}

	appointment := new(models.Appointment)
	err := repo.Appointments.FindOneAndUpdate(ctx,
		bson.M{"_id": transition.AppointmentID, "status": transition.From},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(appointment)
	if err == nil {
		return appointment, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}

	count, err := repo.Appointments.CountDocuments(ctx, bson.M{"_id": transition.AppointmentID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	if count == 0 {
		return nil, contracts.ErrAppointmentNotFound
	}
	return nil, contracts.ErrStatusConflict
}

func (repo *BookingMongoRepository) RecordRefund(ctx context.Context, appointmentID, refundReference string, entry *models.LedgerEntry) error {
	session, err := repo.Client.StartSession()
	if err != nil {
		return exceptions.ErrMongoDBStartTransaction(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		result, err := repo.Appointments.UpdateOne(sessCtx,
			bson.M{"_id": appointmentID},
			bson.M{"$set": bson.M{"refundReference": refundReference, "updatedAt": repo.now().UTC()}},
		)
		if err != nil {
			return nil, exceptions.ErrMongoDBUpdateDocument(err)
		}
		if result.MatchedCount == 0 {
			return nil, contracts.ErrAppointmentNotFound
		}
		if entry != nil {
			if _, err := repo.Ledger.InsertOne(sessCtx, entry); err != nil {
				return nil, exceptions.ErrMongoDBInsertDocument(err)
			}
		}
		return nil, nil
	})
	return err
}

func (repo *BookingMongoRepository) FindLedgerEntriesByReference(ctx context.Context, referenceID string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := repo.Ledger.Find(ctx, bson.M{"referenceId": referenceID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	err = cursor.All(ctx, &entries)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return entries, nil
}

func bookLockUpdate(appointmentID string) bson.M {
	return bson.M{
		"$set":   bson.M{"status": models.SlotLockBooked, "appointmentId": appointmentID},
		"$unset": bson.M{"expiresAt": ""},
	}
}
