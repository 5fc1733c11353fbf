package memstore

import (
	"context"
	"mediconnect-service/internal/app/models"
)

// DoctorDirectory and PatientDirectory expose the seeded profiles through the
// repository contracts.
type DoctorDirectory struct{ store *Store }

type PatientDirectory struct{ store *Store }

func (s *Store) Doctors() *DoctorDirectory {
	return &DoctorDirectory{store: s}
}

func (s *Store) Patients() *PatientDirectory {
	return &PatientDirectory{store: s}
}

func (s *Store) PutDoctor(doctor models.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doctors[doctor.ID] = doctor
}

func (s *Store) PutPatient(patient models.PatientProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patients[patient.ID] = patient
}

func (d *DoctorDirectory) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	doctor, ok := d.store.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (p *PatientDirectory) FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	patient, ok := p.store.patients[patientID]
	if !ok {
		return nil, nil
	}
	return &patient, nil
}
