package mocks

import (
	"context"
	"mediconnect-service/internal/app/models"

	"github.com/stretchr/testify/mock"
)

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientProfile), args.Error(1)
}

type MockPatientProfileService struct {
	mock.Mock
}

func (m *MockPatientProfileService) GetSummary(ctx context.Context, patientID string) (*models.PatientSummary, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientSummary), args.Error(1)
}

type MockAvatarStore struct {
	mock.Mock
}

func (m *MockAvatarStore) PresignAvatar(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}
