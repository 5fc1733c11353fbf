package contracts

import (
	"context"
	"mediconnect-service/internal/app/models"
)

type PatientRepository interface {
	FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error)
}

type PatientProfileService interface {
	GetSummary(ctx context.Context, patientID string) (*models.PatientSummary, error)
}
