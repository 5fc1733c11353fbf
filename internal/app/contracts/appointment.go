package contracts

import (
	"context"
	"mediconnect-service/internal/pkg/dto/requests"
	"mediconnect-service/internal/pkg/dto/responses"
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, patientID string, request *requests.CreateAppointment) (*responses.CreateAppointment, error)
	CancelAppointment(ctx context.Context, patientID string, request *requests.CancelAppointment) (*responses.CancelAppointment, error)
	GetAppointment(ctx context.Context, patientID, appointmentID string) (*responses.Appointment, error)
	MarkArrived(ctx context.Context, patientID, appointmentID string) (*responses.Appointment, error)
	CompleteAppointment(ctx context.Context, appointmentID string) (*responses.Appointment, error)
}

type LifecycleSweeper interface {
	Sweep(ctx context.Context) (*responses.SweepResult, error)
}
