package payment_gateway

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Method tokens recognised by the sandbox gateway.
const (
	SandboxTokenDeclined = "tokn_test_declined"
)

var errSandboxUnknownHold = errors.New("unknown hold")

type sandboxHold struct {
	amount   int64
	captured bool
	voided   bool
	refunded int64
}

// sandboxService is an in-process gateway for local runs. Every token other than
// SandboxTokenDeclined is approved. Authorizations and refunds are remembered
// by idempotency key, so a repeated key returns the first hold or refund.
type sandboxService struct {
	mu             sync.Mutex
	holds          map[string]*sandboxHold
	authorizations map[string]string
	refunds        map[string]string
	Log            *zap.Logger
}

func NewSandboxService(logger *zap.Logger) contracts.PaymentGatewayService {
	return &sandboxService{
		holds:          make(map[string]*sandboxHold),
		authorizations: make(map[string]string),
		refunds:        make(map[string]string),
		Log:            logger,
	}
}

func (s *sandboxService) Authorize(ctx context.Context, request *contracts.AuthorizeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if request.MethodToken == SandboxTokenDeclined {
		return "", &contracts.PaymentDeclinedError{Code: "insufficient_fund", Reason: "insufficient funds in the account"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if holdID, ok := s.authorizations[request.IdempotencyKey]; ok && request.IdempotencyKey != "" {
		return holdID, nil
	}
	holdID := "chrg_sandbox_" + uuid.NewString()
	s.holds[holdID] = &sandboxHold{amount: request.Amount}
	if request.IdempotencyKey != "" {
		s.authorizations[request.IdempotencyKey] = holdID
	}

	s.Log.Debug("sandboxService.Authorize succeeded",
		zap.String(constvars.LoggingHoldIDKey, holdID),
		zap.Int64(constvars.LoggingAmountKey, request.Amount),
	)
	return holdID, nil
}

func (s *sandboxService) Capture(ctx context.Context, holdID, idempotencyKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, ok := s.holds[holdID]
	if !ok || hold.voided {
		return errSandboxUnknownHold
	}
	hold.captured = true
	return nil
}

func (s *sandboxService) VoidHold(ctx context.Context, holdID, idempotencyKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, ok := s.holds[holdID]
	if !ok {
		return errSandboxUnknownHold
	}
	hold.voided = true
	return nil
}

func (s *sandboxService) Refund(ctx context.Context, holdID string, amount int64, idempotencyKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if refundID, ok := s.refunds[idempotencyKey]; ok && idempotencyKey != "" {
		return refundID, nil
	}
	hold, ok := s.holds[holdID]
	if !ok || !hold.captured {
		return "", errSandboxUnknownHold
	}
	if hold.refunded+amount > hold.amount {
		return "", errors.New("refund exceeds captured amount")
	}
	hold.refunded += amount
	refundID := "rfnd_sandbox_" + uuid.NewString()
	if idempotencyKey != "" {
		s.refunds[idempotencyKey] = refundID
	}
	return refundID, nil
}
