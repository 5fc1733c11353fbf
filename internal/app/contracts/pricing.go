package contracts

import (
	"context"
	"mediconnect-service/internal/app/models"
)

// PriceResolver never fails; it falls back to the configured default fee.
type PriceResolver interface {
	ResolveFee(ctx context.Context, doctorID string) int64
}

type DoctorRepository interface {
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
}
