package payment_gateway

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	idempotencyRecordTTL = 24 * time.Hour
	operationDone        = "done"
	operationPending     = "pending"
)

type idempotentGateway struct {
	Gateway         contracts.PaymentGatewayService
	RedisRepository contracts.RedisRepository
	Log             *zap.Logger
}

// NewIdempotentGateway claims every idempotency key before reaching the
// processor. A claimed key replays the first result once it is known; while the
// first call runs, or after it failed for any reason other than a decline, the
// key answers contracts.ErrOperationUnresolved.
func NewIdempotentGateway(gateway contracts.PaymentGatewayService, redisRepository contracts.RedisRepository, logger *zap.Logger) contracts.PaymentGatewayService {
	return &idempotentGateway{
		Gateway:         gateway,
		RedisRepository: redisRepository,
		Log:             logger,
	}
}

func (g *idempotentGateway) Authorize(ctx context.Context, request *contracts.AuthorizeRequest) (string, error) {
	return g.once(ctx, request.IdempotencyKey, func() (string, error) {
		return g.Gateway.Authorize(ctx, request)
	})
}

func (g *idempotentGateway) Capture(ctx context.Context, holdID, idempotencyKey string) error {
	_, err := g.once(ctx, idempotencyKey, func() (string, error) {
		return operationDone, g.Gateway.Capture(ctx, holdID, idempotencyKey)
	})
	return err
}

func (g *idempotentGateway) VoidHold(ctx context.Context, holdID, idempotencyKey string) error {
	_, err := g.once(ctx, idempotencyKey, func() (string, error) {
		return operationDone, g.Gateway.VoidHold(ctx, holdID, idempotencyKey)
	})
	return err
}

func (g *idempotentGateway) Refund(ctx context.Context, holdID string, amount int64, idempotencyKey string) (string, error) {
	return g.once(ctx, idempotencyKey, func() (string, error) {
		return g.Gateway.Refund(ctx, holdID, amount, idempotencyKey)
	})
}

func (g *idempotentGateway) once(ctx context.Context, idempotencyKey string, call func() (string, error)) (string, error) {
	if idempotencyKey == "" {
		return call()
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	recordKey := constvars.RedisKeyPrefixIdempotency + idempotencyKey

	claimed, err := g.RedisRepository.TrySetNX(ctx, recordKey, operationPending, idempotencyRecordTTL)
	if err != nil {
		g.Log.Warn("idempotentGateway error claiming idempotency key, calling gateway unguarded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
			zap.Error(err),
		)
		return call()
	}
	if !claimed {
		return g.replay(ctx, recordKey, idempotencyKey)
	}

	result, err := call()

	// The caller's deadline may already have passed; the record must still land.
	recordCtx := context.WithoutCancel(ctx)
	var declined *contracts.PaymentDeclinedError
	switch {
	case err == nil:
		if setErr := g.RedisRepository.Set(recordCtx, recordKey, result, idempotencyRecordTTL); setErr != nil {
			g.Log.Warn("idempotentGateway error storing idempotency record",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
				zap.Error(setErr),
			)
		}
	case errors.As(err, &declined):
		if _, delErr := g.RedisRepository.DeleteIfValue(recordCtx, recordKey, operationPending); delErr != nil {
			g.Log.Warn("idempotentGateway error releasing declined idempotency key",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
				zap.Error(delErr),
			)
		}
	default:
		g.Log.Warn("idempotentGateway outcome unknown, keeping idempotency key claimed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
			zap.Error(err),
		)
	}
	return result, err
}

func (g *idempotentGateway) replay(ctx context.Context, recordKey, idempotencyKey string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	raw, err := g.RedisRepository.Get(ctx, recordKey)
	if err != nil {
		return "", err
	}
	var result string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return "", err
		}
	}
	if result == "" || result == operationPending {
		g.Log.Warn("idempotentGateway idempotency key unresolved",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
		)
		return "", contracts.ErrOperationUnresolved
	}

	g.Log.Info("idempotentGateway replaying recorded result",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingIdempotencyKey, idempotencyKey),
	)
	return result, nil
}
