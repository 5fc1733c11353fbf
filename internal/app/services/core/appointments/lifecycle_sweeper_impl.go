package appointments

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/dto/responses"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type lifecycleSweeper struct {
	ReservationStore     contracts.ReservationStore
	EventPublisher       contracts.EventPublisher
	RefundLimiter        *rate.Limiter
	NoShowThreshold      time.Duration
	DoctorFaultThreshold time.Duration
	Log                  *zap.Logger
	refunder             *refunder
	now                  func() time.Time
}

// NewLifecycleSweeper closes out CONFIRMED appointments whose slot has passed:
// patients who never arrived become no-shows without refund, and arrived
// patients whose consultation never completed are refunded in full.
func NewLifecycleSweeper(
	reservationStore contracts.ReservationStore,
	paymentGateway contracts.PaymentGatewayService,
	eventPublisher contracts.EventPublisher,
	reconciliationSink contracts.ReconciliationSink,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.LifecycleSweeper {
	sweeperConfig := internalConfig.Sweeper

	refundsPerSecond := sweeperConfig.RefundsPerSecond
	if refundsPerSecond <= 0 {
		refundsPerSecond = 5
	}
	gatewayTimeout := time.Duration(internalConfig.Booking.GatewayTimeoutInSeconds) * time.Second
	if gatewayTimeout <= 0 {
		gatewayTimeout = 10 * time.Second
	}

	s := &lifecycleSweeper{
		ReservationStore:     reservationStore,
		EventPublisher:       eventPublisher,
		RefundLimiter:        rate.NewLimiter(rate.Limit(refundsPerSecond), 1),
		NoShowThreshold:      time.Duration(sweeperConfig.NoShowThresholdInMinutes) * time.Minute,
		DoctorFaultThreshold: time.Duration(sweeperConfig.DoctorFaultThresholdInMinutes) * time.Minute,
		Log:                  logger,
		now:                  func() time.Time { return time.Now().UTC() },
	}
	s.refunder = &refunder{
		Store:              reservationStore,
		PaymentGateway:     paymentGateway,
		ReconciliationSink: reconciliationSink,
		GatewayTimeout:     gatewayTimeout,
		Log:                logger,
		now:                func() time.Time { return s.now() },
		newID:              uuid.NewString,
	}
	return s
}

func (s *lifecycleSweeper) Sweep(ctx context.Context) (*responses.SweepResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("lifecycleSweeper.Sweep called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	confirmed, err := s.ReservationStore.FindAppointmentsByStatus(ctx, models.AppointmentConfirmed)
	if err != nil {
		s.Log.Error("lifecycleSweeper.Sweep error fetching confirmed appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	processed := 0
	for i := range confirmed {
		if err := ctx.Err(); err != nil {
			s.Log.Warn("lifecycleSweeper.Sweep interrupted",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Int(constvars.LoggingProcessedKey, processed),
				zap.Error(err),
			)
			break
		}

		appointment := &confirmed[i]
		elapsed := s.now().Sub(appointment.SlotStart)

		var done bool
		switch {
		case !appointment.PatientArrived && elapsed >= s.NoShowThreshold:
			done = s.closeAsNoShow(ctx, appointment)
		case appointment.PatientArrived && elapsed >= s.DoctorFaultThreshold:
			done, err = s.closeAsDoctorFault(ctx, appointment)
			if err != nil {
				s.Log.Warn("lifecycleSweeper.Sweep refund throttle interrupted",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(err),
				)
				return &responses.SweepResult{Processed: processed}, nil
			}
		}
		if done {
			processed++
		}
	}

	s.Log.Info("lifecycleSweeper.Sweep succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("scanned", len(confirmed)),
		zap.Int(constvars.LoggingProcessedKey, processed),
	)
	return &responses.SweepResult{Processed: processed}, nil
}

func (s *lifecycleSweeper) closeAsNoShow(ctx context.Context, appointment *models.Appointment) bool {
	updated, ok := s.transition(ctx, appointment, models.AppointmentCancelledNoShow)
	if !ok {
		return false
	}

	closeCtx, cancel := closeOutContext(ctx, s.refunder.GatewayTimeout)
	defer cancel()
	s.finish(closeCtx, updated, constvars.EventAppointmentNoShow)
	return true
}

// closeAsDoctorFault waits for the refund limiter before claiming the
// appointment, so an interrupted wait leaves it untouched for the next sweep.
func (s *lifecycleSweeper) closeAsDoctorFault(ctx context.Context, appointment *models.Appointment) (bool, error) {
	if err := s.RefundLimiter.Wait(ctx); err != nil {
		return false, err
	}

	updated, ok := s.transition(ctx, appointment, models.AppointmentCancelledDoctorFault)
	if !ok {
		return false, nil
	}

	closeCtx, cancel := closeOutContext(ctx, s.refunder.GatewayTimeout)
	defer cancel()
	updated.RefundReference = s.refunder.refundInFull(closeCtx, updated, models.RefundFailed)
	s.finish(closeCtx, updated, constvars.EventAppointmentDoctorFault)
	return true, nil
}

func (s *lifecycleSweeper) transition(ctx context.Context, appointment *models.Appointment, to models.AppointmentStatus) (*models.Appointment, bool) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	updated, err := s.ReservationStore.TransitionAppointment(ctx, &models.AppointmentTransition{
		AppointmentID: appointment.ID,
		From:          models.AppointmentConfirmed,
		To:            to,
		UpdatedAt:     s.now(),
	})
	if errors.Is(err, contracts.ErrStatusConflict) {
		s.Log.Info("lifecycleSweeper.Sweep appointment changed concurrently, skipping",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		)
		return nil, false
	}
	if err != nil {
		s.Log.Error("lifecycleSweeper.Sweep error transitioning appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
		return nil, false
	}
	return updated, true
}

func (s *lifecycleSweeper) finish(ctx context.Context, appointment *models.Appointment, eventType string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if err := s.ReservationStore.ReleaseIfHeld(ctx, appointment.LockKey, appointment.ID); err != nil {
		s.Log.Error("lifecycleSweeper.Sweep error releasing slot lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingLockKey, appointment.LockKey),
			zap.Error(err),
		)
	}

	if s.EventPublisher != nil {
		event := models.NewAppointmentEvent(eventType, appointment, s.now())
		if err := s.EventPublisher.Publish(ctx, eventType, event); err != nil {
			s.Log.Warn("lifecycleSweeper.Sweep error publishing event",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}

	s.Log.Info("lifecycleSweeper.Sweep appointment closed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.String(constvars.LoggingStatusKey, string(appointment.Status)),
	)
}
