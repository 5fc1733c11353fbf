package pricing

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type priceResolver struct {
	DoctorRepository contracts.DoctorRepository
	RedisRepository  contracts.RedisRepository
	DefaultFee       int64
	CacheTTL         time.Duration
	Log              *zap.Logger
}

// NewPriceResolver builds a resolver backed by the doctor directory. redisRepository
// may be nil, in which case fees are not cached.
func NewPriceResolver(
	doctorRepository contracts.DoctorRepository,
	redisRepository contracts.RedisRepository,
	defaultFee int64,
	cacheTTL time.Duration,
	logger *zap.Logger,
) contracts.PriceResolver {
	return &priceResolver{
		DoctorRepository: doctorRepository,
		RedisRepository:  redisRepository,
		DefaultFee:       defaultFee,
		CacheTTL:         cacheTTL,
		Log:              logger,
	}
}

func (r *priceResolver) ResolveFee(ctx context.Context, doctorID string) int64 {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Debug("priceResolver.ResolveFee called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	cacheKey := constvars.RedisKeyPrefixDoctorFee + doctorID
	if fee, ok := r.cachedFee(ctx, cacheKey); ok {
		return fee
	}

	doctor, err := r.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		r.Log.Warn("priceResolver.ResolveFee falling back to default fee",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return r.DefaultFee
	}
	if doctor == nil || doctor.ConsultationFee == nil || *doctor.ConsultationFee <= 0 {
		r.Log.Info("priceResolver.ResolveFee doctor has no fee, using default",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Int64(constvars.LoggingAmountKey, r.DefaultFee),
		)
		return r.DefaultFee
	}

	fee := *doctor.ConsultationFee
	if r.RedisRepository != nil {
		if err := r.RedisRepository.Set(ctx, cacheKey, fee, r.CacheTTL); err != nil {
			r.Log.Warn("priceResolver.ResolveFee error caching fee",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}

	r.Log.Debug("priceResolver.ResolveFee succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingAmountKey, fee),
	)
	return fee
}

func (r *priceResolver) cachedFee(ctx context.Context, key string) (int64, bool) {
	if r.RedisRepository == nil {
		return 0, false
	}
	raw, err := r.RedisRepository.Get(ctx, key)
	if err != nil || raw == "" {
		return 0, false
	}
	fee, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || fee <= 0 {
		return 0, false
	}
	return fee, true
}
