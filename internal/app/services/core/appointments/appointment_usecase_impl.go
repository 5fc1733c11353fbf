package appointments

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/dto/requests"
	"mediconnect-service/internal/pkg/dto/responses"
	"mediconnect-service/internal/pkg/exceptions"
	"mediconnect-service/internal/pkg/saga"
	"mediconnect-service/internal/pkg/utils"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	stepAcquireSlotLock  = "acquire_slot_lock"
	stepEnrichPatient    = "enrich_patient"
	stepResolvePrice     = "resolve_price"
	stepAuthorizePayment = "authorize_payment"
	stepCommitBooking    = "commit_booking"
	stepCapturePayment   = "capture_payment"
	stepPublishConfirmed = "publish_confirmed"
)

type appointmentUsecase struct {
	ReservationStore   contracts.ReservationStore
	PaymentGateway     contracts.PaymentGatewayService
	PriceResolver      contracts.PriceResolver
	PatientProfiles    contracts.PatientProfileService
	EventPublisher     contracts.EventPublisher
	ReconciliationSink contracts.ReconciliationSink
	SagaRunner         *saga.Runner
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
	refunder           *refunder
	now                func() time.Time
	newID              func() string
}

func NewAppointmentUsecase(
	reservationStore contracts.ReservationStore,
	paymentGateway contracts.PaymentGatewayService,
	priceResolver contracts.PriceResolver,
	patientProfiles contracts.PatientProfileService,
	eventPublisher contracts.EventPublisher,
	reconciliationSink contracts.ReconciliationSink,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	uc := &appointmentUsecase{
		ReservationStore:   reservationStore,
		PaymentGateway:     paymentGateway,
		PriceResolver:      priceResolver,
		PatientProfiles:    patientProfiles,
		EventPublisher:     eventPublisher,
		ReconciliationSink: reconciliationSink,
		SagaRunner:         saga.NewRunner(logger),
		InternalConfig:     internalConfig,
		Log:                logger,
		now:                func() time.Time { return time.Now().UTC() },
		newID:              uuid.NewString,
	}
	uc.refunder = &refunder{
		Store:              reservationStore,
		PaymentGateway:     paymentGateway,
		ReconciliationSink: reconciliationSink,
		GatewayTimeout:     uc.gatewayTimeout(),
		Log:                logger,
		now:                func() time.Time { return uc.now() },
		newID:              func() string { return uc.newID() },
	}
	return uc
}

func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, patientID string, request *requests.CreateAppointment) (*responses.CreateAppointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	slotStart, normalizedSlot, err := utils.NormalizeTimeSlot(request.TimeSlot)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error normalizing time slot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvalidTimeSlot(err)
	}

	bookingConfig := uc.InternalConfig.Booking
	priority := request.Priority
	if priority == "" {
		priority = bookingConfig.DefaultPriority
	}
	reason := request.Reason
	if reason == "" {
		reason = bookingConfig.DefaultReason
	}

	appointmentID := uc.newID()
	billID := uc.newID()
	lockKey := models.BuildSlotLockKey(request.DoctorID, normalizedSlot)
	lockTTL := time.Duration(bookingConfig.LockTTLInMinutes) * time.Minute

	var (
		summary *models.PatientSummary
		amount  = bookingConfig.DefaultFee
		holdID  string
	)

	steps := []saga.Step{
		{
			Name: stepAcquireSlotLock,
			Action: func(ctx context.Context) error {
				return uc.ReservationStore.Acquire(ctx, lockKey, appointmentID, lockTTL)
			},
			Compensate: func(ctx context.Context) error {
				return uc.ReservationStore.ReleaseIfHeld(ctx, lockKey, appointmentID)
			},
		},
		{
			Name:     stepEnrichPatient,
			Optional: true,
			Action: func(ctx context.Context) error {
				if uc.PatientProfiles == nil {
					return nil
				}
				var err error
				summary, err = uc.PatientProfiles.GetSummary(ctx, patientID)
				return err
			},
		},
		{
			Name:     stepResolvePrice,
			Optional: true,
			Action: func(ctx context.Context) error {
				amount = uc.PriceResolver.ResolveFee(ctx, request.DoctorID)
				return nil
			},
		},
		{
			Name: stepAuthorizePayment,
			Action: func(ctx context.Context) error {
				gatewayCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout())
				defer cancel()

				authorizeKey := idempotencyKey(appointmentID, constvars.GatewayOperationAuthorize)
				var err error
				holdID, err = uc.PaymentGateway.Authorize(gatewayCtx, &contracts.AuthorizeRequest{
					Amount:         amount,
					Currency:       bookingConfig.Currency,
					MethodToken:    request.PaymentMethodToken,
					IdempotencyKey: authorizeKey,
					Description:    "Consultation " + lockKey,
				})
				var declined *contracts.PaymentDeclinedError
				if err != nil && !errors.As(err, &declined) {
					// No hold id came back, but the processor may still have placed one.
					uc.reportAlert(ctx, &models.ReconciliationAlert{
						Kind:           models.ReconciliationAuthorizeUncertain,
						AppointmentID:  appointmentID,
						IdempotencyKey: authorizeKey,
						Amount:         amount,
						Reason:         err.Error(),
					})
				}
				return err
			},
			Compensate: func(ctx context.Context) error {
				gatewayCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout())
				defer cancel()
				return uc.PaymentGateway.VoidHold(gatewayCtx, holdID, idempotencyKey(appointmentID, constvars.GatewayOperationVoid))
			},
		},
		{
			Name:  stepCommitBooking,
			Pivot: true,
			Action: func(ctx context.Context) error {
				now := uc.now()
				appointment := &models.Appointment{
					ID:               appointmentID,
					PatientID:        patientID,
					DoctorID:         request.DoctorID,
					TimeSlot:         normalizedSlot,
					SlotStart:        slotStart,
					LockKey:          lockKey,
					Status:           models.AppointmentConfirmed,
					PaymentReference: holdID,
					AmountCharged:    amount,
					Currency:         bookingConfig.Currency,
					Reason:           reason,
					Priority:         priority,
					QueueStatus:      constvars.QueueStatusWaiting,
				}
				appointment.SetCreatedAtUpdatedAt(now)
				if summary != nil {
					appointment.PatientAge = summary.Age
					appointment.PatientAvatar = summary.Avatar
				}

				return uc.ReservationStore.CommitBooking(ctx, &contracts.BookingCommit{
					Appointment: appointment,
					LedgerEntry: &models.LedgerEntry{
						BillID:           billID,
						ReferenceID:      appointmentID,
						PatientID:        patientID,
						DoctorID:         request.DoctorID,
						Type:             models.LedgerBookingFee,
						Amount:           amount,
						Currency:         bookingConfig.Currency,
						Status:           models.LedgerStatusPaid,
						GatewayReference: holdID,
						CreatedAt:        now,
					},
					LockKey:   lockKey,
					HolderID:  appointmentID,
					CareLinks: models.BuildCareTeamLinks(patientID, request.DoctorID, now),
				})
			},
		},
		{
			Name: stepCapturePayment,
			Action: func(ctx context.Context) error {
				gatewayCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout())
				defer cancel()
				return uc.PaymentGateway.Capture(gatewayCtx, holdID, idempotencyKey(appointmentID, constvars.GatewayOperationCapture))
			},
			OnFailure: func(ctx context.Context, err error) {
				uc.reportCaptureFailure(ctx, appointmentID, holdID, amount, err)
			},
		},
		{
			Name:     stepPublishConfirmed,
			Optional: true,
			Action: func(ctx context.Context) error {
				appointment, err := uc.ReservationStore.FindAppointmentByID(ctx, appointmentID)
				if err != nil || appointment == nil {
					return err
				}
				return uc.publish(ctx, constvars.EventAppointmentConfirmed, appointment)
			},
		},
	}

	if err := uc.SagaRunner.Run(ctx, "create_appointment", steps); err != nil {
		return nil, uc.translateSagaError(ctx, err)
	}

	utils.LogBusinessEvent(uc.Log, "appointment_confirmed", requestID,
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingLockKey, lockKey),
		zap.Int64(constvars.LoggingAmountKey, amount),
	)

	return &responses.CreateAppointment{
		AppointmentID: appointmentID,
		BillID:        billID,
		Priority:      priority,
		QueueStatus:   constvars.QueueStatusWaiting,
	}, nil
}

func (uc *appointmentUsecase) translateSagaError(ctx context.Context, err error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var stepErr *saga.StepError
	step := ""
	if errors.As(err, &stepErr) {
		step = stepErr.Step
		if len(stepErr.CompensationErrors) > 0 {
			uc.Log.Error("appointmentUsecase.CreateAppointment compensation incomplete",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Errors("compensation_errors", stepErr.CompensationErrors),
			)
		}
	}

	var declined *contracts.PaymentDeclinedError
	switch {
	case errors.Is(err, contracts.ErrLockConflict):
		return exceptions.ErrSlotNoLongerAvailable(err)
	case errors.As(err, &declined):
		return exceptions.ErrPaymentDeclined(err, declined.Reason)
	case step == stepAcquireSlotLock:
		return exceptions.ErrSlotLockAcquire(err)
	case step == stepAuthorizePayment:
		return exceptions.ErrPaymentGateway(err)
	case step == stepCommitBooking:
		return exceptions.ErrBookingCommit(err)
	default:
		return exceptions.ErrServerProcess(err)
	}
}

func (uc *appointmentUsecase) reportCaptureFailure(ctx context.Context, appointmentID, holdID string, amount int64, err error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Error("appointmentUsecase.CreateAppointment capture failed after commit",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingHoldIDKey, holdID),
		zap.Error(err),
	)
	uc.reportAlert(ctx, &models.ReconciliationAlert{
		Kind:           models.ReconciliationCaptureFailed,
		AppointmentID:  appointmentID,
		HoldID:         holdID,
		IdempotencyKey: idempotencyKey(appointmentID, constvars.GatewayOperationCapture),
		Amount:         amount,
		Reason:         err.Error(),
	})
}

func (uc *appointmentUsecase) reportAlert(ctx context.Context, alert *models.ReconciliationAlert) {
	if uc.ReconciliationSink == nil {
		return
	}
	alert.Currency = uc.InternalConfig.Booking.Currency
	alert.OccurredAt = uc.now()
	if err := uc.ReconciliationSink.Report(context.WithoutCancel(ctx), alert); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Error("appointmentUsecase.CreateAppointment error reporting to reconciliation sink",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("kind", string(alert.Kind)),
			zap.Error(err),
		)
	}
}

// CancelAppointment refunds only on the call that wins the CONFIRMED to
// CANCELLED_USER transition, so repeated or racing cancels refund once.
func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, patientID string, request *requests.CancelAppointment) (*responses.CancelAppointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)

	appointment, err := uc.findOwnedAppointment(ctx, patientID, request.AppointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.Status.IsCancelled() {
		// A close-out cut short earlier may have left the lock behind.
		uc.releaseSlotDetached(ctx, appointment)
		return alreadyCancelledResponse(appointment), nil
	}
	if appointment.Status == models.AppointmentCompleted {
		return nil, exceptions.ErrAppointmentCompleted(nil)
	}

	cancelled, err := uc.ReservationStore.TransitionAppointment(ctx, &models.AppointmentTransition{
		AppointmentID: appointment.ID,
		From:          models.AppointmentConfirmed,
		To:            models.AppointmentCancelledUser,
		UpdatedAt:     uc.now(),
	})
	if errors.Is(err, contracts.ErrStatusConflict) {
		current, findErr := uc.ReservationStore.FindAppointmentByID(ctx, appointment.ID)
		if findErr == nil && current != nil && current.Status.IsCancelled() {
			uc.Log.Info("appointmentUsecase.CancelAppointment lost race to another cancellation",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingStatusKey, string(current.Status)),
			)
			uc.releaseSlotDetached(ctx, current)
			return alreadyCancelledResponse(current), nil
		}
		return nil, exceptions.ErrAppointmentStatusChanged(err)
	}
	if errors.Is(err, contracts.ErrAppointmentNotFound) {
		return nil, exceptions.ErrAppointmentNotFound(err)
	}
	if err != nil {
		uc.Log.Error("appointmentUsecase.CancelAppointment error transitioning appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	closeCtx, cancel := closeOutContext(ctx, uc.gatewayTimeout())
	defer cancel()

	refundReference := uc.refunder.refundInFull(closeCtx, cancelled, models.RefundFailedManualRequired)
	cancelled.RefundReference = refundReference

	uc.releaseSlot(closeCtx, cancelled)
	if err := uc.publish(closeCtx, constvars.EventAppointmentCancelled, cancelled); err != nil {
		uc.Log.Warn("appointmentUsecase.CancelAppointment error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("appointmentUsecase.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, cancelled.ID),
	)
	return &responses.CancelAppointment{
		AppointmentID:   cancelled.ID,
		Status:          string(cancelled.Status),
		RefundReference: refundReference,
	}, nil
}

func (uc *appointmentUsecase) GetAppointment(ctx context.Context, patientID, appointmentID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.GetAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findOwnedAppointment(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

func (uc *appointmentUsecase) MarkArrived(ctx context.Context, patientID, appointmentID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.MarkArrived called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findOwnedAppointment(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status != models.AppointmentConfirmed {
		return nil, exceptions.ErrAppointmentNotConfirmed(nil)
	}
	if appointment.PatientArrived {
		return toAppointmentResponse(appointment), nil
	}

	arrived := true
	updated, err := uc.ReservationStore.TransitionAppointment(ctx, &models.AppointmentTransition{
		AppointmentID:  appointment.ID,
		From:           models.AppointmentConfirmed,
		To:             models.AppointmentConfirmed,
		PatientArrived: &arrived,
		UpdatedAt:      uc.now(),
	})
	if err != nil {
		return nil, uc.translateTransitionError(ctx, "MarkArrived", err)
	}

	uc.Log.Info("appointmentUsecase.MarkArrived succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return toAppointmentResponse(updated), nil
}

// CompleteAppointment is called by the consultation side; it does not check
// the patient identity.
func (uc *appointmentUsecase) CompleteAppointment(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CompleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.ReservationStore.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(contracts.ErrAppointmentNotFound)
	}
	if appointment.Status == models.AppointmentCompleted {
		uc.releaseSlotDetached(ctx, appointment)
		return toAppointmentResponse(appointment), nil
	}
	if appointment.Status != models.AppointmentConfirmed {
		return nil, exceptions.ErrAppointmentNotConfirmed(nil)
	}

	completed, err := uc.ReservationStore.TransitionAppointment(ctx, &models.AppointmentTransition{
		AppointmentID: appointment.ID,
		From:          models.AppointmentConfirmed,
		To:            models.AppointmentCompleted,
		UpdatedAt:     uc.now(),
	})
	if err != nil {
		return nil, uc.translateTransitionError(ctx, "CompleteAppointment", err)
	}

	closeCtx, cancel := closeOutContext(ctx, uc.gatewayTimeout())
	defer cancel()

	uc.releaseSlot(closeCtx, completed)
	if err := uc.publish(closeCtx, constvars.EventAppointmentCompleted, completed); err != nil {
		uc.Log.Warn("appointmentUsecase.CompleteAppointment error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("appointmentUsecase.CompleteAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, completed.ID),
	)
	return toAppointmentResponse(completed), nil
}

func (uc *appointmentUsecase) findOwnedAppointment(ctx context.Context, patientID, appointmentID string) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	appointment, err := uc.ReservationStore.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.findOwnedAppointment error fetching appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(contracts.ErrAppointmentNotFound)
	}
	if appointment.PatientID != patientID {
		uc.Log.Warn("appointmentUsecase.findOwnedAppointment identity mismatch",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return nil, exceptions.ErrAppointmentNotOwned(nil)
	}
	return appointment, nil
}

func (uc *appointmentUsecase) translateTransitionError(ctx context.Context, method string, err error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	switch {
	case errors.Is(err, contracts.ErrStatusConflict):
		return exceptions.ErrAppointmentStatusChanged(err)
	case errors.Is(err, contracts.ErrAppointmentNotFound):
		return exceptions.ErrAppointmentNotFound(err)
	}
	uc.Log.Error("appointmentUsecase."+method+" error transitioning appointment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	return err
}

func (uc *appointmentUsecase) releaseSlotDetached(ctx context.Context, appointment *models.Appointment) {
	closeCtx, cancel := closeOutContext(ctx, uc.gatewayTimeout())
	defer cancel()
	uc.releaseSlot(closeCtx, appointment)
}

// releaseSlot only removes the lock this appointment booked, so repeating it
// after the slot was rebooked leaves the new holder alone.
func (uc *appointmentUsecase) releaseSlot(ctx context.Context, appointment *models.Appointment) {
	if err := uc.ReservationStore.ReleaseIfHeld(ctx, appointment.LockKey, appointment.ID); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Error("appointmentUsecase error releasing slot lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingLockKey, appointment.LockKey),
			zap.Error(err),
		)
	}
}

func (uc *appointmentUsecase) publish(ctx context.Context, eventType string, appointment *models.Appointment) error {
	if uc.EventPublisher == nil {
		return nil
	}
	return uc.EventPublisher.Publish(ctx, eventType, models.NewAppointmentEvent(eventType, appointment, uc.now()))
}

func (uc *appointmentUsecase) gatewayTimeout() time.Duration {
	timeout := time.Duration(uc.InternalConfig.Booking.GatewayTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}

func alreadyCancelledResponse(appointment *models.Appointment) *responses.CancelAppointment {
	return &responses.CancelAppointment{
		AppointmentID:    appointment.ID,
		Status:           string(appointment.Status),
		RefundReference:  appointment.RefundReference,
		AlreadyCancelled: true,
	}
}

func toAppointmentResponse(appointment *models.Appointment) *responses.Appointment {
	return &responses.Appointment{
		AppointmentID:    appointment.ID,
		PatientID:        appointment.PatientID,
		DoctorID:         appointment.DoctorID,
		TimeSlot:         appointment.TimeSlot,
		Status:           string(appointment.Status),
		PaymentReference: appointment.PaymentReference,
		AmountCharged:    appointment.AmountCharged,
		Currency:         appointment.Currency,
		PatientArrived:   appointment.PatientArrived,
		RefundReference:  appointment.RefundReference,
		Reason:           appointment.Reason,
		Priority:         appointment.Priority,
		QueueStatus:      appointment.QueueStatus,
		PatientAge:       appointment.PatientAge,
		PatientAvatar:    appointment.PatientAvatar,
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}
}
