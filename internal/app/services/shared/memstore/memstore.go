// Package memstore keeps slot locks, appointments, ledger entries and care
// links in process memory. A single mutex makes every call atomic, which is
// how it honours the conditional and all-or-nothing contracts.
package memstore

import (
	"context"
	"fmt"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"sort"
	"sync"
	"time"
)

type Store struct {
	mu           sync.Mutex
	now          func() time.Time
	locks        map[string]models.SlotLock
	appointments map[string]models.Appointment
	ledger       map[string]models.LedgerEntry
	careLinks    map[string]models.CareLink
	doctors      map[string]models.Doctor
	patients     map[string]models.PatientProfile

	// FailNextCommit makes the next CommitBooking fail without writing.
	FailNextCommit error
}

func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:          now,
		locks:        make(map[string]models.SlotLock),
		appointments: make(map[string]models.Appointment),
		ledger:       make(map[string]models.LedgerEntry),
		careLinks:    make(map[string]models.CareLink),
		doctors:      make(map[string]models.Doctor),
		patients:     make(map[string]models.PatientProfile),
	}
}

func (s *Store) Acquire(ctx context.Context, key, holderID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.locks[key]; ok && !existing.IsReleasable(now) {
		return contracts.ErrLockConflict
	}

	expiresAt := now.Add(ttl)
	s.locks[key] = models.SlotLock{
		Key:       key,
		HolderID:  holderID,
		Status:    models.SlotLockLocked,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
	return nil
}

func (s *Store) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}

func (s *Store) ReleaseIfHeld(ctx context.Context, key, holderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.locks[key]; ok && existing.HolderID == holderID {
		delete(s.locks, key)
	}
	return nil
}

func (s *Store) MarkBooked(ctx context.Context, key, appointmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		return contracts.ErrLockNotFound
	}
	lock.Status = models.SlotLockBooked
	lock.AppointmentID = appointmentID
	lock.ExpiresAt = nil
	s.locks[key] = lock
	return nil
}

func (s *Store) FindLock(ctx context.Context, key string) (*models.SlotLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		return nil, nil
	}
	return &lock, nil
}

func (s *Store) CommitBooking(ctx context.Context, commit *contracts.BookingCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailNextCommit; err != nil {
		s.FailNextCommit = nil
		return err
	}

	lock, ok := s.locks[commit.LockKey]
	if !ok || lock.HolderID != commit.HolderID || lock.Status != models.SlotLockLocked {
		return contracts.ErrLockNotFound
	}
	if _, exists := s.appointments[commit.Appointment.ID]; exists {
		return fmt.Errorf("appointment %s already exists", commit.Appointment.ID)
	}
	if _, exists := s.ledger[commit.LedgerEntry.BillID]; exists {
		return fmt.Errorf("ledger entry %s already exists", commit.LedgerEntry.BillID)
	}

	s.appointments[commit.Appointment.ID] = *commit.Appointment
	s.ledger[commit.LedgerEntry.BillID] = *commit.LedgerEntry
	for _, link := range commit.CareLinks {
		id := link.PK + "|" + link.SK
		if _, exists := s.careLinks[id]; !exists {
			s.careLinks[id] = link
		}
	}

	lock.Status = models.SlotLockBooked
	lock.AppointmentID = commit.Appointment.ID
	lock.ExpiresAt = nil
	s.locks[commit.LockKey] = lock
	return nil
}

func (s *Store) FindAppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (s *Store) FindAppointmentsByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Appointment
	for _, appointment := range s.appointments {
		if appointment.Status == status {
			result = append(result, appointment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SlotStart.Before(result[j].SlotStart)
	})
	return result, nil
}

func (s *Store) TransitionAppointment(ctx context.Context, transition *models.AppointmentTransition) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointment, ok := s.appointments[transition.AppointmentID]
	if !ok {
		return nil, contracts.ErrAppointmentNotFound
	}
	if appointment.Status != transition.From {
		return nil, contracts.ErrStatusConflict
	}

	appointment.Status = transition.To
	if transition.RefundReference != nil {
		ref := *transition.RefundReference
		appointment.RefundReference = &ref
	}
	if transition.PatientArrived != nil {
		appointment.PatientArrived = *transition.PatientArrived
	}
	appointment.UpdatedAt = transition.UpdatedAt
	s.appointments[appointment.ID] = appointment
	return &appointment, nil
}

func (s *Store) RecordRefund(ctx context.Context, appointmentID, refundReference string, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return contracts.ErrAppointmentNotFound
	}
	if entry != nil {
		if _, exists := s.ledger[entry.BillID]; exists {
			return fmt.Errorf("ledger entry %s already exists", entry.BillID)
		}
		s.ledger[entry.BillID] = *entry
	}

	appointment.RefundReference = &refundReference
	appointment.UpdatedAt = s.now()
	s.appointments[appointmentID] = appointment
	return nil
}

func (s *Store) FindLedgerEntriesByReference(ctx context.Context, referenceID string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.LedgerEntry
	for _, entry := range s.ledger {
		if entry.ReferenceID == referenceID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CareLinks returns every stored care link, for assertions.
func (s *Store) CareLinks() []models.CareLink {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.CareLink, 0, len(s.careLinks))
	for _, link := range s.careLinks {
		result = append(result, link)
	}
	return result
}

// PutAppointment overwrites an appointment, for seeding sweeps.
func (s *Store) PutAppointment(appointment models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments[appointment.ID] = appointment
}
