package patients

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/exceptions"
	"mediconnect-service/internal/pkg/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PatientPostgresRepository struct {
	DB *pgxpool.Pool
}

func NewPatientPostgresRepository(db *pgxpool.Pool) contracts.PatientRepository {
	return &PatientPostgresRepository{DB: db}
}

func (repo *PatientPostgresRepository) FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	patient := new(models.PatientProfile)
	err := repo.DB.QueryRow(ctx, queries.GetPatientByID, patientID).Scan(
		&patient.ID, &patient.Name, &patient.DateOfBirth, &patient.Avatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return patient, nil
}
