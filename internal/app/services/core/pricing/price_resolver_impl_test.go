package pricing

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts/mocks"
	"mediconnect-service/internal/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func TestResolveFee(t *testing.T) {
	ctx := context.Background()

	t.Run("Uses doctor fee and caches it", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		redisRepo := new(mocks.MockRedisRepository)
		doctors.On("FindByID", ctx, "D1").Return(&models.Doctor{ID: "D1", ConsultationFee: int64Ptr(7500)}, nil)
		redisRepo.On("Get", ctx, "booking:doctor_fee:D1").Return("", nil)
		redisRepo.On("Set", ctx, "booking:doctor_fee:D1", int64(7500), 10*time.Minute).Return(nil)

		resolver := NewPriceResolver(doctors, redisRepo, 5000, 10*time.Minute, zap.NewNop())

		assert.Equal(t, int64(7500), resolver.ResolveFee(ctx, "D1"))
		doctors.AssertExpectations(t)
		redisRepo.AssertExpectations(t)
	})

	t.Run("Cache hit skips the directory", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		redisRepo := new(mocks.MockRedisRepository)
		redisRepo.On("Get", ctx, "booking:doctor_fee:D1").Return("6200", nil)

		resolver := NewPriceResolver(doctors, redisRepo, 5000, time.Minute, zap.NewNop())

		assert.Equal(t, int64(6200), resolver.ResolveFee(ctx, "D1"))
		doctors.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Missing fee falls back to default", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		doctors.On("FindByID", ctx, "D1").Return(&models.Doctor{ID: "D1"}, nil)

		resolver := NewPriceResolver(doctors, nil, 5000, time.Minute, zap.NewNop())

		assert.Equal(t, int64(5000), resolver.ResolveFee(ctx, "D1"))
	})

	t.Run("Missing doctor falls back to default", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		doctors.On("FindByID", ctx, "D9").Return(nil, nil)

		resolver := NewPriceResolver(doctors, nil, 5000, time.Minute, zap.NewNop())

		assert.Equal(t, int64(5000), resolver.ResolveFee(ctx, "D9"))
	})

	t.Run("Directory error falls back to default", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		redisRepo := new(mocks.MockRedisRepository)
		redisRepo.On("Get", ctx, "booking:doctor_fee:D1").Return("", errors.New("redis down"))
		doctors.On("FindByID", ctx, "D1").Return(nil, errors.New("db down"))

		resolver := NewPriceResolver(doctors, redisRepo, 5000, time.Minute, zap.NewNop())

		assert.Equal(t, int64(5000), resolver.ResolveFee(ctx, "D1"))
		redisRepo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
