package contracts

import (
	"context"
	"errors"
	"fmt"
)

// ErrOperationUnresolved is returned for an idempotency key whose first call is
// still running or ended without a known processor outcome.
var ErrOperationUnresolved = errors.New("payment operation with this idempotency key is unresolved")

type AuthorizeRequest struct {
	Amount         int64
	Currency       string
	MethodToken    string
	IdempotencyKey string
	Description    string
}

type PaymentDeclinedError struct {
	Code   string
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("payment declined: %s", e.Reason)
	}
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Reason)
}

// PaymentGatewayService is a two-phase card gateway. Authorize places a hold
// and fails with *PaymentDeclinedError when the card is rejected.
type PaymentGatewayService interface {
	Authorize(ctx context.Context, request *AuthorizeRequest) (holdID string, err error)
	Capture(ctx context.Context, holdID, idempotencyKey string) error
	VoidHold(ctx context.Context, holdID, idempotencyKey string) error
	Refund(ctx context.Context, holdID string, amount int64, idempotencyKey string) (refundID string, err error)
}
