package contracts

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/models"
	"time"
)

var (
	ErrLockConflict        = errors.New("slot lock already held")
	ErrLockNotFound        = errors.New("slot lock not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStatusConflict      = errors.New("appointment status changed concurrently")
)

// SlotLockStore guards (doctor, slot) pairs with conditional writes.
// Acquire fails with ErrLockConflict unless the key is absent or holds an
// expired LOCKED entry. Release is idempotent.
type SlotLockStore interface {
	Acquire(ctx context.Context, key, holderID string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
	ReleaseIfHeld(ctx context.Context, key, holderID string) error
	MarkBooked(ctx context.Context, key, appointmentID string) error
	FindLock(ctx context.Context, key string) (*models.SlotLock, error)
}

type BookingCommit struct {
	Appointment *models.Appointment
	LedgerEntry *models.LedgerEntry
	LockKey     string
	HolderID    string
	CareLinks   []models.CareLink
}

// BookingStore writes appointments, ledger entries and care links. Every
// appointment mutation is conditional on its current status.
type BookingStore interface {
	CommitBooking(ctx context.Context, commit *BookingCommit) error
	FindAppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindAppointmentsByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	TransitionAppointment(ctx context.Context, transition *models.AppointmentTransition) (*models.Appointment, error)
	RecordRefund(ctx context.Context, appointmentID, refundReference string, entry *models.LedgerEntry) error
	FindLedgerEntriesByReference(ctx context.Context, referenceID string) ([]models.LedgerEntry, error)
}

// ReservationStore is one backend serving both the lock and the commit so the
// commit can flip the lock to BOOKED inside the same transaction.
type ReservationStore interface {
	SlotLockStore
	BookingStore
}
