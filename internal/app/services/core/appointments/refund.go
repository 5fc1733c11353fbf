package appointments

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

// closeOutStoreTimeout covers the store writes and the event publish that
// follow a committed status change, on top of the gateway call.
const closeOutStoreTimeout = 15 * time.Second

func idempotencyKey(appointmentID, operation string) string {
	return appointmentID + ":" + operation
}

// closeOutContext detaches from the caller once a status change is committed:
// the refund, the lock release and the event must not be cut short by a client
// disconnect or a stopping worker.
func closeOutContext(ctx context.Context, gatewayTimeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), gatewayTimeout+closeOutStoreTimeout)
}

// refunder returns the full captured amount of an appointment and records the
// outcome. Gateway failures never propagate: the appointment gets failureMarker
// as its refund reference and the reconciliation sink is alerted.
type refunder struct {
	Store              contracts.BookingStore
	PaymentGateway     contracts.PaymentGatewayService
	ReconciliationSink contracts.ReconciliationSink
	GatewayTimeout     time.Duration
	Log                *zap.Logger
	now                func() time.Time
	newID              func() string
}

func (r *refunder) refundInFull(ctx context.Context, appointment *models.Appointment, failureMarker string) *string {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if appointment.PaymentReference == "" || appointment.AmountCharged <= 0 {
		return nil
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, r.GatewayTimeout)
	refundID, err := r.PaymentGateway.Refund(gatewayCtx, appointment.PaymentReference, appointment.AmountCharged, idempotencyKey(appointment.ID, constvars.GatewayOperationRefund))
	cancel()

	entry := &models.LedgerEntry{
		BillID:           r.newID(),
		ReferenceID:      appointment.ID,
		PatientID:        appointment.PatientID,
		DoctorID:         appointment.DoctorID,
		Type:             models.LedgerRefund,
		Amount:           -appointment.AmountCharged,
		Currency:         appointment.Currency,
		Status:           models.LedgerStatusRefunded,
		GatewayReference: refundID,
		CreatedAt:        r.now(),
	}
	reference := refundID

	if err != nil {
		r.Log.Error("refunder.refundInFull gateway refund failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.String(constvars.LoggingHoldIDKey, appointment.PaymentReference),
			zap.Error(err),
		)
		entry.Status = models.LedgerStatusRefundFailed
		reference = failureMarker
		r.alert(ctx, appointment, err.Error())
	}

	if recordErr := r.Store.RecordRefund(ctx, appointment.ID, reference, entry); recordErr != nil {
		r.Log.Error("refunder.refundInFull error recording refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.String(constvars.LoggingRefundIDKey, refundID),
			zap.Error(recordErr),
		)
		if err == nil {
			r.alert(ctx, appointment, "refund issued but not recorded: "+recordErr.Error())
		}
	}

	r.Log.Info("refunder.refundInFull finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.String(constvars.LoggingRefundIDKey, reference),
	)
	return &reference
}

func (r *refunder) alert(ctx context.Context, appointment *models.Appointment, reason string) {
	if r.ReconciliationSink == nil {
		return
	}
	alert := &models.ReconciliationAlert{
		Kind:          models.ReconciliationRefundFailed,
		AppointmentID: appointment.ID,
		HoldID:        appointment.PaymentReference,
		Amount:        appointment.AmountCharged,
		Currency:      appointment.Currency,
		Reason:        reason,
		OccurredAt:    r.now(),
	}
	if err := r.ReconciliationSink.Report(ctx, alert); err != nil {
		r.Log.Error("refunder.alert error reporting to reconciliation sink",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
	}
}
