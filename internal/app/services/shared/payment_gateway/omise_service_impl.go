package payment_gateway

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/exceptions"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"go.uber.org/zap"
)

const omiseChargeFailed = "failed"

type omiseService struct {
	Client *omise.Client
	Log    *zap.Logger
}

func NewOmiseService(client *omise.Client, logger *zap.Logger) contracts.PaymentGatewayService {
	return &omiseService{
		Client: client,
		Log:    logger,
	}
}

// chargeDescription carries the idempotency key on the charge so reconciliation
// can find a hold whose authorize response was lost.
func chargeDescription(request *contracts.AuthorizeRequest) string {
	if request.IdempotencyKey == "" {
		return request.Description
	}
	return request.Description + " [" + request.IdempotencyKey + "]"
}

// Authorize creates an uncaptured charge; the charge id is the hold id.
func (s *omiseService) Authorize(ctx context.Context, request *contracts.AuthorizeRequest) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("omiseService.Authorize called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingAmountKey, request.Amount),
		zap.String(constvars.LoggingIdempotencyKey, request.IdempotencyKey),
	)

	charge := &omise.Charge{}
	operation := &operations.CreateCharge{
		Amount:      request.Amount,
		Currency:    request.Currency,
		Card:        request.MethodToken,
		Description: chargeDescription(request),
		DontCapture: true,
	}

	err := s.call(ctx, func() error { return s.Client.Do(charge, operation) })
	if err != nil {
		var omiseErr *omise.Error
		if errors.As(err, &omiseErr) && omiseErr.StatusCode >= 400 && omiseErr.StatusCode < 500 && omiseErr.StatusCode != 401 {
			return "", &contracts.PaymentDeclinedError{Code: omiseErr.Code, Reason: omiseErr.Message}
		}
		s.Log.Error("omiseService.Authorize error creating charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrPaymentGateway(err)
	}

	if string(charge.Status) == omiseChargeFailed {
		declined := &contracts.PaymentDeclinedError{}
		if charge.FailureCode != nil {
			declined.Code = *charge.FailureCode
		}
		if charge.FailureMessage != nil {
			declined.Reason = *charge.FailureMessage
		}
		s.Log.Info("omiseService.Authorize charge declined",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingHoldIDKey, charge.ID),
			zap.String("failure_code", declined.Code),
		)
		return "", declined
	}

	s.Log.Info("omiseService.Authorize succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingHoldIDKey, charge.ID),
	)
	return charge.ID, nil
}

func (s *omiseService) Capture(ctx context.Context, holdID, idempotencyKey string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("omiseService.Capture called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingHoldIDKey, holdID),
		zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
	)

	charge := &omise.Charge{}
	err := s.call(ctx, func() error {
		return s.Client.Do(charge, &operations.CaptureCharge{ChargeID: holdID})
	})
	if err != nil {
		s.Log.Error("omiseService.Capture error capturing charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingHoldIDKey, holdID),
			zap.Error(err),
		)
		return exceptions.ErrPaymentGateway(err)
	}
	return nil
}

// VoidHold reverses an uncaptured charge, releasing the held funds.
func (s *omiseService) VoidHold(ctx context.Context, holdID, idempotencyKey string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("omiseService.VoidHold called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingHoldIDKey, holdID),
		zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
	)

	charge := &omise.Charge{}
	err := s.call(ctx, func() error {
		return s.Client.Do(charge, &operations.ReverseCharge{ChargeID: holdID})
	})
	if err != nil {
		s.Log.Error("omiseService.VoidHold error reversing charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingHoldIDKey, holdID),
			zap.Error(err),
		)
		return exceptions.ErrPaymentGateway(err)
	}
	return nil
}

func (s *omiseService) Refund(ctx context.Context, holdID string, amount int64, idempotencyKey string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("omiseService.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingHoldIDKey, holdID),
		zap.Int64(constvars.LoggingAmountKey, amount),
		zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
	)

	refund := &omise.Refund{}
	err := s.call(ctx, func() error {
		return s.Client.Do(refund, &operations.CreateRefund{ChargeID: holdID, Amount: amount})
	})
	if err != nil {
		s.Log.Error("omiseService.Refund error creating refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingHoldIDKey, holdID),
			zap.Error(err),
		)
		return "", exceptions.ErrPaymentGateway(err)
	}

	s.Log.Info("omiseService.Refund succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRefundIDKey, refund.ID),
	)
	return refund.ID, nil
}

// call runs a blocking SDK request and gives up when ctx is done. The request
// itself keeps running; retries rely on the idempotency layer.
func (s *omiseService) call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
