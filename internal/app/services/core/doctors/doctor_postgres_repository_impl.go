package doctors

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

type DoctorPostgresRepository struct {
	DB *pgxpool.Pool
}

func NewDoctorPostgresRepository(db *pgxpool.Pool) contracts.DoctorRepository {
	return &DoctorPostgresRepository{DB: db}
}

func (repo *DoctorPostgresRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor := new(models.Doctor)
	err := repo.DB.QueryRow(ctx, queries.GetDoctorByID, doctorID).Scan(
		&doctor.ID, &doctor.Name, &doctor.Specialization, &doctor.ConsultationFee,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return doctor, nil
}
