package mocks

import (
	"context"
	"mediconnect-service/internal/pkg/dto/requests"
	"mediconnect-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/mock"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) CreateAppointment(ctx context.Context, patientID string, request *requests.CreateAppointment) (*responses.CreateAppointment, error) {
	args := m.Called(ctx, patientID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.CreateAppointment), args.Error(1)
}

func (m *MockAppointmentUsecase) CancelAppointment(ctx context.Context, patientID string, request *requests.CancelAppointment) (*responses.CancelAppointment, error) {
	args := m.Called(ctx, patientID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.CancelAppointment), args.Error(1)
}

func (m *MockAppointmentUsecase) GetAppointment(ctx context.Context, patientID, appointmentID string) (*responses.Appointment, error) {
	args := m.Called(ctx, patientID, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.Appointment), args.Error(1)
}

func (m *MockAppointmentUsecase) MarkArrived(ctx context.Context, patientID, appointmentID string) (*responses.Appointment, error) {
	args := m.Called(ctx, patientID, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.Appointment), args.Error(1)
}

func (m *MockAppointmentUsecase) CompleteAppointment(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.Appointment), args.Error(1)
}

type MockLifecycleSweeper struct {
	mock.Mock
}

func (m *MockLifecycleSweeper) Sweep(ctx context.Context) (*responses.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.SweepResult), args.Error(1)
}
