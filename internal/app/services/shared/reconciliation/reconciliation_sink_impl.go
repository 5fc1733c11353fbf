package reconciliation

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

type reconciliationSink struct {
	Publisher contracts.EventPublisher
	Log       *zap.Logger
}

// NewReconciliationSink logs every alert at error level and forwards it to the
// reconciliation queue. publisher may be nil, leaving only the log line.
func NewReconciliationSink(publisher contracts.EventPublisher, logger *zap.Logger) contracts.ReconciliationSink {
	return &reconciliationSink{
		Publisher: publisher,
		Log:       logger,
	}
}

func (s *reconciliationSink) Report(ctx context.Context, alert *models.ReconciliationAlert) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Error("Manual payment reconciliation required",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("reconciliation_kind", string(alert.Kind)),
		zap.String(constvars.LoggingAppointmentIDKey, alert.AppointmentID),
		zap.String(constvars.LoggingHoldIDKey, alert.HoldID),
		zap.Int64(constvars.LoggingAmountKey, alert.Amount),
		zap.String("reason", alert.Reason),
	)

	if s.Publisher == nil {
		return nil
	}
	if err := s.Publisher.Publish(ctx, constvars.ReconciliationQueueName, alert); err != nil {
		s.Log.Error("reconciliationSink.Report error publishing alert",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
