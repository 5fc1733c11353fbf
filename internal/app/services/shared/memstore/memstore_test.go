package memstore

import (
	"context"
	"errors"
	"fmt"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCommit(lockKey, holderID, appointmentID string, now time.Time) *contracts.BookingCommit {
	return &contracts.BookingCommit{
		Appointment: &models.Appointment{
			ID:            appointmentID,
			PatientID:     "P1",
			DoctorID:      "D1",
			LockKey:       lockKey,
			Status:        models.AppointmentConfirmed,
			AmountCharged: 5000,
			TimeModel:     models.TimeModel{CreatedAt: now, UpdatedAt: now},
		},
		LedgerEntry: &models.LedgerEntry{
			BillID:      "bill-" + appointmentID,
			ReferenceID: appointmentID,
			Type:        models.LedgerBookingFee,
			Amount:      5000,
			Status:      models.LedgerStatusPaid,
			CreatedAt:   now,
		},
		LockKey:   lockKey,
		HolderID:  holderID,
		CareLinks: models.BuildCareTeamLinks("P1", "D1", now),
	}
}

func TestStore_Acquire(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}

	t.Run("Concurrent acquires have exactly one winner", func(t *testing.T) {
		store := New(clock.Now)
		var wins, conflicts int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := store.Acquire(ctx, "D1#2025-01-01T10:00:00Z", fmt.Sprintf("holder-%d", i), 15*time.Minute)
				if err == nil {
					atomic.AddInt32(&wins, 1)
				} else if errors.Is(err, contracts.ErrLockConflict) {
					atomic.AddInt32(&conflicts, 1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins)
		assert.Equal(t, int32(49), conflicts)
	})

	t.Run("Expired lock can be taken over", func(t *testing.T) {
		store := New(clock.Now)
		require.NoError(t, store.Acquire(ctx, "k", "first", time.Minute))
		assert.ErrorIs(t, store.Acquire(ctx, "k", "second", time.Minute), contracts.ErrLockConflict)

		clock.Advance(2 * time.Minute)
		require.NoError(t, store.Acquire(ctx, "k", "second", time.Minute))

		lock, err := store.FindLock(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "second", lock.HolderID)
	})

	t.Run("Booked lock never expires", func(t *testing.T) {
		store := New(clock.Now)
		require.NoError(t, store.Acquire(ctx, "k", "holder", time.Minute))
		require.NoError(t, store.MarkBooked(ctx, "k", "A1"))

		clock.Advance(24 * time.Hour)
		assert.ErrorIs(t, store.Acquire(ctx, "k", "other", time.Minute), contracts.ErrLockConflict)
	})

	t.Run("Release is idempotent", func(t *testing.T) {
		store := New(clock.Now)
		require.NoError(t, store.Release(ctx, "missing"))
		require.NoError(t, store.Acquire(ctx, "k", "holder", time.Minute))
		require.NoError(t, store.Release(ctx, "k"))
		require.NoError(t, store.Release(ctx, "k"))
		require.NoError(t, store.Acquire(ctx, "k", "other", time.Minute))
	})

	t.Run("ReleaseIfHeld keeps a foreign lock", func(t *testing.T) {
		store := New(clock.Now)
		require.NoError(t, store.Acquire(ctx, "k", "owner", time.Minute))
		require.NoError(t, store.ReleaseIfHeld(ctx, "k", "intruder"))

		lock, err := store.FindLock(ctx, "k")
		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.Equal(t, "owner", lock.HolderID)
	})

	t.Run("MarkBooked on a missing key", func(t *testing.T) {
		store := New(clock.Now)
		assert.ErrorIs(t, store.MarkBooked(ctx, "missing", "A1"), contracts.ErrLockNotFound)
	})
}

func TestStore_CommitBooking(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Writes every item and books the lock", func(t *testing.T) {
		store := New(func() time.Time { return now })
		require.NoError(t, store.Acquire(ctx, "k", "A1", 15*time.Minute))
		require.NoError(t, store.CommitBooking(ctx, newCommit("k", "A1", "A1", now)))

		appointment, err := store.FindAppointmentByID(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentConfirmed, appointment.Status)

		entries, err := store.FindLedgerEntriesByReference(ctx, "A1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.LedgerBookingFee, entries[0].Type)
		assert.Equal(t, appointment.AmountCharged, entries[0].Amount)

		lock, err := store.FindLock(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, models.SlotLockBooked, lock.Status)
		assert.Equal(t, "A1", lock.AppointmentID)
		assert.Nil(t, lock.ExpiresAt)

		assert.Len(t, store.CareLinks(), 2)
	})

	t.Run("Failure writes nothing", func(t *testing.T) {
		store := New(func() time.Time { return now })
		require.NoError(t, store.Acquire(ctx, "k", "A1", 15*time.Minute))
		store.FailNextCommit = errors.New("disk on fire")

		require.Error(t, store.CommitBooking(ctx, newCommit("k", "A1", "A1", now)))

		appointment, err := store.FindAppointmentByID(ctx, "A1")
		require.NoError(t, err)
		assert.Nil(t, appointment)
		entries, err := store.FindLedgerEntriesByReference(ctx, "A1")
		require.NoError(t, err)
		assert.Empty(t, entries)
		lock, err := store.FindLock(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, models.SlotLockLocked, lock.Status)
		assert.Empty(t, store.CareLinks())
	})

	t.Run("Lock taken over by another holder fails the commit", func(t *testing.T) {
		store := New(func() time.Time { return now })
		require.NoError(t, store.Acquire(ctx, "k", "someone-else", 15*time.Minute))

		err := store.CommitBooking(ctx, newCommit("k", "A1", "A1", now))

		assert.ErrorIs(t, err, contracts.ErrLockNotFound)
	})

	t.Run("Repeat care links are upserted", func(t *testing.T) {
		store := New(func() time.Time { return now })
		require.NoError(t, store.Acquire(ctx, "k1", "A1", 15*time.Minute))
		require.NoError(t, store.CommitBooking(ctx, newCommit("k1", "A1", "A1", now)))
		require.NoError(t, store.Acquire(ctx, "k2", "A2", 15*time.Minute))
		require.NoError(t, store.CommitBooking(ctx, newCommit("k2", "A2", "A2", now)))

		assert.Len(t, store.CareLinks(), 2)
	})
}

func TestStore_TransitionAppointment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	store := New(func() time.Time { return now })
	require.NoError(t, store.Acquire(ctx, "k", "A1", 15*time.Minute))
	require.NoError(t, store.CommitBooking(ctx, newCommit("k", "A1", "A1", now)))

	transition := &models.AppointmentTransition{
		AppointmentID: "A1",
		From:          models.AppointmentConfirmed,
		To:            models.AppointmentCancelledUser,
		UpdatedAt:     now,
	}

	updated, err := store.TransitionAppointment(ctx, transition)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelledUser, updated.Status)

	_, err = store.TransitionAppointment(ctx, transition)
	assert.ErrorIs(t, err, contracts.ErrStatusConflict)

	_, err = store.TransitionAppointment(ctx, &models.AppointmentTransition{AppointmentID: "nope", From: models.AppointmentConfirmed})
	assert.ErrorIs(t, err, contracts.ErrAppointmentNotFound)
}
