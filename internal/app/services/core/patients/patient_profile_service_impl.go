package patients

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

type patientProfileService struct {
	PatientRepository contracts.PatientRepository
	AvatarStore       contracts.AvatarStore
	Log               *zap.Logger
	now               func() time.Time
}

// NewPatientProfileService builds the enrichment lookup. avatarStore may be nil
// when no object store is configured; stored avatar keys are then dropped.
func NewPatientProfileService(
	patientRepository contracts.PatientRepository,
	avatarStore contracts.AvatarStore,
	logger *zap.Logger,
) contracts.PatientProfileService {
	return &patientProfileService{
		PatientRepository: patientRepository,
		AvatarStore:       avatarStore,
		Log:               logger,
		now:               time.Now,
	}
}

// GetSummary returns nil with no error when the patient has no profile.
func (s *patientProfileService) GetSummary(ctx context.Context, patientID string) (*models.PatientSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Debug("patientProfileService.GetSummary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	profile, err := s.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		s.Log.Error("patientProfileService.GetSummary error fetching patient profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	summary := &models.PatientSummary{}
	if age, ok := utils.AgeFromBirthDate(profile.DateOfBirth, s.now()); ok {
		summary.Age = &age
	}
	summary.Avatar = s.resolveAvatar(ctx, requestID, profile.Avatar)

	return summary, nil
}

func (s *patientProfileService) resolveAvatar(ctx context.Context, requestID, avatar string) string {
	if avatar == "" || strings.HasPrefix(avatar, "http") {
		return avatar
	}
	if s.AvatarStore == nil {
		return ""
	}

	url, err := s.AvatarStore.PresignAvatar(ctx, avatar)
	if err != nil {
		s.Log.Warn("patientProfileService.GetSummary error presigning avatar",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return ""
	}
	return url
}
