package bookings

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/exceptions"
	"mediconnect-service/internal/pkg/queries"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingPostgresRepository struct {
	DB  *pgxpool.Pool
	now func() time.Time
}

func NewBookingPostgresRepository(db *pgxpool.Pool) contracts.ReservationStore {
	return &BookingPostgresRepository{
		DB:  db,
		now: time.Now,
	}
}

func (repo *BookingPostgresRepository) Acquire(ctx context.Context, key, holderID string, ttl time.Duration) error {
	now := repo.now().UTC()
	var lockKey string
	err := repo.DB.QueryRow(ctx, queries.AcquireSlotLock, key, holderID, now, now.Add(ttl)).Scan(&lockKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contracts.ErrLockConflict
		}
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *BookingPostgresRepository) Release(ctx context.Context, key string) error {
	_, err := repo.DB.Exec(ctx, queries.DeleteSlotLock, key)
	if err != nil {
		return exceptions.ErrPostgresDBDeleteData(err)
	}
	return nil
}

func (repo *BookingPostgresRepository) ReleaseIfHeld(ctx context.Context, key, holderID string) error {
	_, err := repo.DB.Exec(ctx, queries.DeleteSlotLockByHolder, key, holderID)
	if err != nil {
		return exceptions.ErrPostgresDBDeleteData(err)
	}
	return nil
}

func (repo *BookingPostgresRepository) MarkBooked(ctx context.Context, key, appointmentID string) error {
	tag, err := repo.DB.Exec(ctx, queries.MarkSlotLockBooked, key, appointmentID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrLockNotFound
	}
	return nil
}

func (repo *BookingPostgresRepository) FindLock(ctx context.Context, key string) (*models.SlotLock, error) {
	lock := new(models.SlotLock)
	var status string
	err := repo.DB.QueryRow(ctx, queries.GetSlotLock, key).Scan(
		&lock.Key, &lock.HolderID, &status, &lock.AppointmentID, &lock.CreatedAt, &lock.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	lock.Status = models.SlotLockStatus(status)
	return lock, nil
}

func (repo *BookingPostgresRepository) CommitBooking(ctx context.Context, commit *contracts.BookingCommit) (err error) {
	tx, err := repo.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return exceptions.ErrPostgresDBStartTransaction(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	a := commit.Appointment
	_, err = tx.Exec(ctx, queries.InsertAppointment,
		a.ID, a.PatientID, a.DoctorID, a.TimeSlot, a.SlotStart, a.LockKey, string(a.Status),
		a.PaymentReference, a.AmountCharged, a.Currency, a.PatientArrived, a.RefundReference,
		a.Reason, a.Priority, a.QueueStatus, a.PatientAge, a.PatientAvatar, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}

	if err = insertLedgerEntry(ctx, tx, commit.LedgerEntry); err != nil {
		return err
	}

	for _, link := range commit.CareLinks {
		_, err = tx.Exec(ctx, queries.UpsertCareLink, link.PK, link.SK, link.Relationship, link.CreatedAt)
		if err != nil {
			return exceptions.ErrPostgresDBInsertData(err)
		}
	}

	tag, err := tx.Exec(ctx, queries.MarkSlotLockBookedByHolder, commit.LockKey, commit.HolderID, a.ID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if tag.RowsAffected() == 0 {
		err = contracts.ErrLockNotFound
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *BookingPostgresRepository) FindAppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment, err := scanAppointment(repo.DB.QueryRow(ctx, queries.GetAppointmentByID, appointmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return appointment, nil
}

func (repo *BookingPostgresRepository) FindAppointmentsByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	rows, err := repo.DB.Query(ctx, queries.GetAppointmentsByStatus, string(status))
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		appointments = append(appointments, *appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return appointments, nil
}

func (repo *BookingPostgresRepository) TransitionAppointment(ctx context.Context, transition *models.AppointmentTransition) (*models.Appointment, error) {
	appointment, err := scanAppointment(repo.DB.QueryRow(ctx, queries.TransitionAppointment,
		transition.AppointmentID,
		string(transition.From),
		string(transition.To),
		transition.UpdatedAt,
		transition.RefundReference,
		transition.PatientArrived,
	))
	if err == nil {
		return appointment, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}

	var exists bool
	if err := repo.DB.QueryRow(ctx, queries.ExistsAppointment, transition.AppointmentID).Scan(&exists); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	if !exists {
		return nil, contracts.ErrAppointmentNotFound
	}
	return nil, contracts.ErrStatusConflict
}

func (repo *BookingPostgresRepository) RecordRefund(ctx context.Context, appointmentID, refundReference string, entry *models.LedgerEntry) (err error) {
	tx, err := repo.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return exceptions.ErrPostgresDBStartTransaction(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, queries.UpdateAppointmentRefundReference, appointmentID, refundReference, repo.now().UTC())
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if tag.RowsAffected() == 0 {
		err = contracts.ErrAppointmentNotFound
		return err
	}

	if entry != nil {
		if err = insertLedgerEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *BookingPostgresRepository) FindLedgerEntriesByReference(ctx context.Context, referenceID string) ([]models.LedgerEntry, error) {
	rows, err := repo.DB.Query(ctx, queries.GetLedgerEntriesByReference, referenceID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			entry       models.LedgerEntry
			entryType   string
			entryStatus string
		)
		err := rows.Scan(&entry.BillID, &entry.ReferenceID, &entry.PatientID, &entry.DoctorID,
			&entryType, &entry.Amount, &entry.Currency, &entryStatus, &entry.GatewayReference, &entry.CreatedAt)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		entry.Type = models.LedgerEntryType(entryType)
		entry.Status = models.LedgerEntryStatus(entryStatus)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return entries, nil
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, entry *models.LedgerEntry) error {
	_, err := tx.Exec(ctx, queries.InsertLedgerEntry,
		entry.BillID, entry.ReferenceID, entry.PatientID, entry.DoctorID, string(entry.Type),
		entry.Amount, entry.Currency, string(entry.Status), entry.GatewayReference, entry.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func scanAppointment(row pgx.Row) (*models.Appointment, error) {
	var (
		a      models.Appointment
		status string
	)
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.TimeSlot, &a.SlotStart, &a.LockKey, &status,
		&a.PaymentReference, &a.AmountCharged, &a.Currency, &a.PatientArrived, &a.RefundReference,
		&a.Reason, &a.Priority, &a.QueueStatus, &a.PatientAge, &a.PatientAvatar, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = models.AppointmentStatus(status)
	return &a, nil
}
